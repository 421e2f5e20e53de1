package model

import "time"

// Client is a firm client account. UserID links it to the portal login
// used for self service; at most one active client may reference a
// given user. AssignedProfessionalIDs is the full replacement set
// managed by admins.
type Client struct {
	ID                      string     `db:"id" json:"id"`
	UserID                  *string    `db:"user_id" json:"user_id"`
	Name                    string     `db:"name" json:"name"`
	Email                   string     `db:"email" json:"email"` // display helper, not an identity
	AssignedProfessionalIDs StringList `db:"assigned_professional_ids" json:"assigned_professional_ids"`
	Active                  bool       `db:"active" json:"active"`
	CreatedAt               time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time  `db:"updated_at" json:"updated_at"`
}

package model

import "time"

// Invite is keyed by normalized email: one pending invite per address.
// It is consumed (deleted) when the invited user completes setup.
type Invite struct {
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

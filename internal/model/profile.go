package model

import "time"

// Profile is the resolved portal identity for a user. It only exists
// after invite redemption; a user without a profile is stuck in setup.
// Role is immutable after creation, only Active can be toggled.
type Profile struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Email     string    `db:"email" json:"email"` // copied from User at setup for listing without a join
	Name      string    `db:"name" json:"name"`
	Role      Role      `db:"role" json:"role"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

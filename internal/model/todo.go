package model

import "time"

type TodoStatus string

const (
	TodoStatusOpen     TodoStatus = "open"
	TodoStatusResolved TodoStatus = "resolved"
	// TodoStatusCancelled is declared in the schema but no operation
	// transitions into it.
	TodoStatusCancelled TodoStatus = "cancelled"
)

// TodoAudience says who a task is addressed to.
type TodoAudience string

const (
	TodoAudienceClient       TodoAudience = "client"
	TodoAudienceProfessional TodoAudience = "professional"
)

// Todo is a pending task on a client account. It carries the same
// denormalized permission copy as Document.
type Todo struct {
	ID            string       `db:"id" json:"id"`
	ClientID      string       `db:"client_id" json:"client_id"`
	Title         string       `db:"title" json:"title"`
	Description   string       `db:"description" json:"description"`
	CreatedBy     string       `db:"created_by" json:"created_by"`
	CreatedByRole Role         `db:"created_by_role" json:"created_by_role"`
	AssignedTo    TodoAudience `db:"assigned_to" json:"assigned_to"`
	Status        TodoStatus   `db:"status" json:"status"`

	ClientUserID            *string    `db:"client_user_id" json:"-"`
	AssignedProfessionalIDs StringList `db:"assigned_professional_ids" json:"-"`

	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

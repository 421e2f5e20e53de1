package model

import "time"

// AuditEntry records one mutating service call. Entries are append
// only and never updated or deleted.
type AuditEntry struct {
	ID               string    `db:"id" json:"id"`
	Action           string    `db:"action" json:"action"`
	TargetCollection string    `db:"target_collection" json:"target_collection"`
	TargetID         string    `db:"target_id" json:"target_id"`
	ActorID          string    `db:"actor_id" json:"actor_id"`
	ActorRole        Role      `db:"actor_role" json:"actor_role"`
	Details          JSONMap   `db:"details" json:"details"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

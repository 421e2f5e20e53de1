package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

type AuditRepository interface {
	Create(entry *model.AuditEntry) error
	Recent(limit int) ([]*model.AuditEntry, error)
}

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(entry *model.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `INSERT INTO audit_logs (id, action, target_collection, target_id, actor_id, actor_role, details, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		entry.ID,
		entry.Action,
		entry.TargetCollection,
		entry.TargetID,
		entry.ActorID,
		entry.ActorRole,
		entry.Details,
		entry.CreatedAt,
	)
	return err
}

func (r *auditRepository) Recent(limit int) ([]*model.AuditEntry, error) {
	var entries []*model.AuditEntry
	query := `SELECT * FROM audit_logs ORDER BY created_at DESC LIMIT $1`

	err := r.db.Select(&entries, query, limit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

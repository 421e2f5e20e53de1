package service

import (
	"log/slog"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/repository"
)

// AuditService records one entry per mutating service call. Audit
// writes are best effort: a failure is logged and swallowed, it never
// blocks or rolls back the primary operation.
type AuditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

func (s *AuditService) Record(action, targetCollection, targetID string, actor access.Actor, details map[string]any) {
	entry := &model.AuditEntry{
		Action:           action,
		TargetCollection: targetCollection,
		TargetID:         targetID,
		ActorID:          actor.ID,
		ActorRole:        actor.Role,
		Details:          model.JSONMap(details),
	}

	err := s.auditRepo.Create(entry)
	if err != nil {
		slog.Warn("audit write failed",
			"error", err,
			"action", action,
			"target_collection", targetCollection,
			"target_id", targetID,
			"actor_id", actor.ID,
		)
	}
}

// Recent lists the newest audit entries, admin only (enforced by the
// route guard).
func (s *AuditService) Recent(limit int) ([]*model.AuditEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.auditRepo.Recent(limit)
}

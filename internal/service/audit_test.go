package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

func TestAuditRecordSwallowsWriteFailure(t *testing.T) {
	repo := &fakeAuditRepo{fail: errors.New("disk full")}
	svc := NewAuditService(repo)

	// Must not panic or surface the error; a failed audit write never
	// blocks the primary operation.
	svc.Record("client_created", "clients", "client-1", adminActor, nil)
	assert.Empty(t, repo.actions())
}

func TestAuditRecordCapturesActor(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo)

	svc.Record("delete_client", "clients", "client-1", adminActor, map[string]any{"reason": "duplicate"})

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, "delete_client", entry.Action)
	assert.Equal(t, "clients", entry.TargetCollection)
	assert.Equal(t, adminActor.ID, entry.ActorID)
	assert.Equal(t, model.RoleAdmin, entry.ActorRole)
	assert.Equal(t, "duplicate", entry.Details["reason"])
}

func TestAuditRecentClampsLimit(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo)
	for i := 0; i < 60; i++ {
		svc.Record("client_updated", "clients", "client-1", adminActor, nil)
	}

	entries, err := svc.Recent(-1)
	require.NoError(t, err)
	assert.Len(t, entries, 50)
}

package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

func documentColumns() []string {
	return []string{
		"id", "client_id", "uploaded_by", "uploaded_by_role", "category", "note",
		"file_name", "file_type", "file_size", "storage_path", "download_url", "status",
		"client_user_id", "assigned_professional_ids", "created_at", "updated_at",
	}
}

func TestDocumentByClientAppliesClientScope(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db)

	now := time.Now()
	mock.ExpectQuery(`FROM documents WHERE client_id`).
		WithArgs("c1", "user-9").
		WillReturnRows(sqlmock.NewRows(documentColumns()).
			AddRow("d1", "c1", "user-9", "client", "impostos", "", "darf.pdf", "application/pdf", int64(1024), "clients/c1/documents/d1/darf.pdf", "", "pending", "user-9", `[]`, now, now))

	docs, err := repo.ByClient("c1", access.Scope{ClientUserID: "user-9"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, model.DocumentStatusPending, docs[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentByClientAppliesMembershipScope(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db)

	mock.ExpectQuery(`json_each`).
		WithArgs("c1", "pro-1").
		WillReturnRows(sqlmock.NewRows(documentColumns()))

	docs, err := repo.ByClient("c1", access.Scope{ProfessionalID: "pro-1"})
	require.NoError(t, err)
	assert.Empty(t, docs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentUpdateStatusMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDocumentRepository(db)

	mock.ExpectExec(`UPDATE documents SET status`).
		WithArgs("approved", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus("missing", model.DocumentStatusApproved, nil)
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

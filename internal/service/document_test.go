package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

func uploadInput() UploadInput {
	body := "fake pdf bytes"
	return UploadInput{
		ClientID:       "client-1",
		UploadedBy:     "user-1",
		UploadedByRole: model.RoleClient,
		Category:       "impostos",
		FileName:       "darf-2026.pdf",
		FileType:       "application/pdf",
		FileSize:       int64(len(body)),
		File:           strings.NewReader(body),
	}
}

func TestUploadWritesBlobThenRecord(t *testing.T) {
	store := &fakeStorage{}
	var created *model.Document
	repo := &fakeDocumentRepo{
		CreateFn: func(doc *model.Document) error {
			created = doc
			return nil
		},
	}
	audit, auditRepo := newTestAudit()
	svc := NewDocumentService(repo, store, audit)

	userID := "user-1"
	grants := access.Grants{ClientUserID: &userID, AssignedProfessionalIDs: model.StringList{"pro-1"}}

	doc, err := svc.Upload(uploadInput(), grants, nil)
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, model.DocumentStatusPending, doc.Status)
	assert.Equal(t, "clients/client-1/documents/"+doc.ID+"/darf-2026.pdf", doc.StoragePath)
	require.Len(t, store.saved, 1)
	assert.Equal(t, doc.StoragePath, store.saved[0])
	assert.Equal(t, grants.ClientUserID, doc.ClientUserID)
	assert.Equal(t, grants.AssignedProfessionalIDs, doc.AssignedProfessionalIDs)
	assert.Equal(t, []string{"document_uploaded"}, auditRepo.actions())
}

func TestUploadDeletesBlobWhenRecordFails(t *testing.T) {
	store := &fakeStorage{}
	repo := &fakeDocumentRepo{
		CreateFn: func(doc *model.Document) error {
			return errors.New("insert failed")
		},
	}
	audit, auditRepo := newTestAudit()
	svc := NewDocumentService(repo, store, audit)

	_, err := svc.Upload(uploadInput(), access.Grants{}, nil)
	require.Error(t, err)
	require.Len(t, store.saved, 1)
	require.Len(t, store.deleted, 1)
	assert.Equal(t, store.saved[0], store.deleted[0])
	assert.Empty(t, auditRepo.actions())
}

func TestUploadReportsFullProgressOnlyOnSuccess(t *testing.T) {
	store := &fakeStorage{saveErr: errors.New("connection reset")}
	repo := &fakeDocumentRepo{}
	audit, _ := newTestAudit()
	svc := NewDocumentService(repo, store, audit)

	var last int
	_, err := svc.Upload(uploadInput(), access.Grants{}, func(percent int) { last = percent })
	require.ErrorIs(t, err, ErrFileUploadFailed)
	assert.Less(t, last, 100)
}

func TestSetStatusOnlyFromPending(t *testing.T) {
	doc := &model.Document{
		ID:                      "doc-1",
		Status:                  model.DocumentStatusApproved,
		AssignedProfessionalIDs: model.StringList{"pro-1"},
	}
	repo := &fakeDocumentRepo{
		ByIDFn: func(id string) (*model.Document, error) { return doc, nil },
	}
	audit, _ := newTestAudit()
	svc := NewDocumentService(repo, &fakeStorage{}, audit)

	pro := access.Actor{ID: "pro-1", Role: model.RoleProfessional}
	_, err := svc.SetStatus("doc-1", model.DocumentStatusRejected, nil, pro)
	require.ErrorIs(t, err, ErrStatusFinal)
}

func TestSetStatusRejectsUnassignedProfessional(t *testing.T) {
	doc := &model.Document{
		ID:                      "doc-1",
		Status:                  model.DocumentStatusPending,
		AssignedProfessionalIDs: model.StringList{"pro-2"},
	}
	repo := &fakeDocumentRepo{
		ByIDFn: func(id string) (*model.Document, error) { return doc, nil },
	}
	audit, _ := newTestAudit()
	svc := NewDocumentService(repo, &fakeStorage{}, audit)

	_, err := svc.SetStatus("doc-1", model.DocumentStatusApproved, nil, access.Actor{ID: "pro-1", Role: model.RoleProfessional})
	require.ErrorIs(t, err, ErrNotPermitted)
}

func TestSetStatusApprovesPending(t *testing.T) {
	doc := &model.Document{
		ID:                      "doc-1",
		Status:                  model.DocumentStatusPending,
		AssignedProfessionalIDs: model.StringList{"pro-1"},
	}
	var gotStatus model.DocumentStatus
	repo := &fakeDocumentRepo{
		ByIDFn: func(id string) (*model.Document, error) { return doc, nil },
		UpdateStatusFn: func(id string, status model.DocumentStatus, note *string) error {
			gotStatus = status
			return nil
		},
	}
	audit, auditRepo := newTestAudit()
	svc := NewDocumentService(repo, &fakeStorage{}, audit)

	note := "faltou a segunda página"
	updated, err := svc.SetStatus("doc-1", model.DocumentStatusRejected, &note, access.Actor{ID: "pro-1", Role: model.RoleProfessional})
	require.NoError(t, err)
	assert.Equal(t, model.DocumentStatusRejected, gotStatus)
	assert.Equal(t, model.DocumentStatusRejected, updated.Status)
	assert.Equal(t, note, updated.Note)
	assert.Equal(t, []string{"document_status_changed"}, auditRepo.actions())
}

func TestPendingCountProfessionalOnly(t *testing.T) {
	repo := &fakeDocumentRepo{
		ByProfessionalFn: func(professionalID string, limit int) ([]*model.Document, error) {
			return []*model.Document{
				{Status: model.DocumentStatusPending},
				{Status: model.DocumentStatusApproved},
				{Status: model.DocumentStatusPending},
			}, nil
		},
	}
	audit, _ := newTestAudit()
	svc := NewDocumentService(repo, &fakeStorage{}, audit)

	count, err := svc.PendingCount(access.Actor{ID: "pro-1", Role: model.RoleProfessional})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = svc.PendingCount(adminActor)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRecentTruncatesScopedResults(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeDocumentRepo{
		RecentFn: func(scope access.Scope, limit int) ([]*model.Document, error) {
			return []*model.Document{
				{ID: "a", CreatedAt: base},
				{ID: "b", CreatedAt: base.Add(time.Hour)},
				{ID: "c", CreatedAt: base.Add(2 * time.Hour)},
			}, nil
		},
	}
	audit, _ := newTestAudit()
	svc := NewDocumentService(repo, &fakeStorage{}, audit)

	userID := "user-1"
	docs, err := svc.Recent(2, access.Actor{ID: userID, Role: model.RoleClient})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "c", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
}

func TestDeleteRemovesBlobAndRecord(t *testing.T) {
	store := &fakeStorage{}
	deleted := false
	repo := &fakeDocumentRepo{
		ByIDFn: func(id string) (*model.Document, error) {
			return &model.Document{ID: id, StoragePath: "clients/c/documents/d/f.pdf"}, nil
		},
		DeleteFn: func(id string) error {
			deleted = true
			return nil
		},
	}
	audit, auditRepo := newTestAudit()
	svc := NewDocumentService(repo, store, audit)

	err := svc.Delete("doc-1", adminActor)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"clients/c/documents/d/f.pdf"}, store.deleted)
	assert.Equal(t, []string{"document_deleted"}, auditRepo.actions())
}

package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/repository"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/storage"
)

var (
	// ErrStatusFinal rejects transitions out of approved/rejected.
	ErrStatusFinal      = errors.New("document status is final")
	ErrInvalidStatus    = errors.New("invalid document status")
	ErrFileUploadFailed = errors.New("file upload failed")
)

// UploadInput carries everything needed for a document upload. The
// denormalized grants are passed by the caller from the client record
// it already holds; the service does not re-fetch the client.
type UploadInput struct {
	ClientID       string
	UploadedBy     string
	UploadedByRole model.Role
	Category       string
	Note           string
	FileName       string
	FileType       string
	FileSize       int64
	File           io.Reader
}

type DocumentService struct {
	documentRepository repository.DocumentRepository
	storage            storage.Storage
	audit              *AuditService
}

func NewDocumentService(documentRepository repository.DocumentRepository, store storage.Storage, audit *AuditService) *DocumentService {
	return &DocumentService{
		documentRepository: documentRepository,
		storage:            store,
		audit:              audit,
	}
}

// Upload is a two-phase write: stream the blob to storage, then write
// the record under the same generated id so the record id and the
// storage path segment match. If the record write fails the blob is
// deleted as compensation (best effort; a crash between the phases can
// leave an orphaned blob).
func (s *DocumentService) Upload(input UploadInput, grants access.Grants, progress storage.ProgressFunc) (*model.Document, error) {
	id := uuid.New().String()
	path := fmt.Sprintf("clients/%s/documents/%s/%s", input.ClientID, id, input.FileName)

	err := s.storage.SaveWithProgress(path, input.File, input.FileSize, progress)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileUploadFailed, err)
	}

	downloadURL, err := s.storage.PresignedURL(path, 0)
	if err != nil {
		slog.Warn("failed to presign download url at upload", "error", err, "path", path)
		downloadURL = ""
	}

	doc := &model.Document{
		ID:                      id,
		ClientID:                input.ClientID,
		UploadedBy:              input.UploadedBy,
		UploadedByRole:          input.UploadedByRole,
		Category:                input.Category,
		Note:                    input.Note,
		FileName:                input.FileName,
		FileType:                input.FileType,
		FileSize:                input.FileSize,
		StoragePath:             path,
		DownloadURL:             downloadURL,
		Status:                  model.DocumentStatusPending,
		ClientUserID:            grants.ClientUserID,
		AssignedProfessionalIDs: grants.AssignedProfessionalIDs,
	}

	err = s.documentRepository.Create(doc)
	if err != nil {
		delErr := s.storage.Delete(path)
		if delErr != nil {
			slog.Error("failed to delete blob during upload cleanup", "error", delErr, "path", path)
		}
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	actor := access.Actor{ID: input.UploadedBy, Role: input.UploadedByRole}
	s.audit.Record("document_uploaded", "documents", id, actor, map[string]any{
		"file_name": input.FileName,
		"client_id": input.ClientID,
	})

	return doc, nil
}

// ByClient lists a client's documents visible to the caller, newest
// first. Sorting happens here for every role: the per-client query has
// no server-side order.
func (s *DocumentService) ByClient(clientID string, actor access.Actor) ([]*model.Document, error) {
	docs, err := s.documentRepository.ByClient(clientID, access.ScopeFor(actor))
	if err != nil {
		return nil, err
	}

	sortDocumentsNewestFirst(docs)
	return docs, nil
}

// Recent returns the newest documents for dashboards. Admin results
// are sorted and truncated by the store; scoped results are filtered
// by predicate first, then sorted and truncated here.
func (s *DocumentService) Recent(limit int, actor access.Actor) ([]*model.Document, error) {
	if limit <= 0 {
		limit = 5
	}

	scope := access.ScopeFor(actor)
	docs, err := s.documentRepository.Recent(scope, limit)
	if err != nil {
		return nil, err
	}

	if !scope.All {
		sortDocumentsNewestFirst(docs)
		if len(docs) > limit {
			docs = docs[:limit]
		}
	}

	return docs, nil
}

// PendingCount counts pending documents across a professional's
// assigned clients. Other roles always see zero.
func (s *DocumentService) PendingCount(actor access.Actor) (int, error) {
	if actor.Role != model.RoleProfessional {
		return 0, nil
	}

	docs, err := s.documentRepository.ByProfessional(actor.ID, 100)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, doc := range docs {
		if doc.Status == model.DocumentStatusPending {
			count++
		}
	}
	return count, nil
}

// SetStatus moves a pending document to approved or rejected. Both
// target states are terminal: once reviewed, a document stays put.
func (s *DocumentService) SetStatus(id string, status model.DocumentStatus, note *string, actor access.Actor) (*model.Document, error) {
	if status != model.DocumentStatusApproved && status != model.DocumentStatusRejected {
		return nil, ErrInvalidStatus
	}

	doc, err := s.documentRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	if !documentGrants(doc).Allows(access.ScopeFor(actor)) {
		return nil, ErrNotPermitted
	}

	if doc.Status != model.DocumentStatusPending {
		return nil, ErrStatusFinal
	}

	err = s.documentRepository.UpdateStatus(id, status, note)
	if err != nil {
		return nil, err
	}

	doc.Status = status
	if note != nil {
		doc.Note = *note
	}

	s.audit.Record("document_status_changed", "documents", id, actor, map[string]any{
		"status": string(status),
	})

	return doc, nil
}

// DownloadURL issues a fresh presigned locator for a document the
// caller is allowed to see.
func (s *DocumentService) DownloadURL(id string, actor access.Actor) (string, error) {
	doc, err := s.documentRepository.ByID(id)
	if err != nil {
		return "", err
	}

	if !documentGrants(doc).Allows(access.ScopeFor(actor)) {
		return "", ErrNotPermitted
	}

	return s.storage.PresignedURL(doc.StoragePath, 0)
}

// Delete removes the blob first (failure tolerated, the blob may
// already be gone), then the record.
func (s *DocumentService) Delete(id string, actor access.Actor) error {
	doc, err := s.documentRepository.ByID(id)
	if err != nil {
		return err
	}

	err = s.storage.Delete(doc.StoragePath)
	if err != nil {
		slog.Warn("failed to delete document blob", "error", err, "path", doc.StoragePath)
	}

	err = s.documentRepository.Delete(id)
	if err != nil {
		return err
	}

	s.audit.Record("document_deleted", "documents", id, actor, nil)
	return nil
}

func documentGrants(doc *model.Document) access.Grants {
	return access.Grants{
		ClientUserID:            doc.ClientUserID,
		AssignedProfessionalIDs: doc.AssignedProfessionalIDs,
	}
}

func sortDocumentsNewestFirst(docs []*model.Document) {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepository interface {
	Create(doc *model.Document) error
	ByID(id string) (*model.Document, error)
	ByClient(clientID string, scope access.Scope) ([]*model.Document, error)
	Recent(scope access.Scope, limit int) ([]*model.Document, error)
	ByProfessional(professionalID string, limit int) ([]*model.Document, error)
	UpdateStatus(id string, status model.DocumentStatus, note *string) error
	Delete(id string) error
}

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(doc *model.Document) error {
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	query := `INSERT INTO documents (
		id, client_id, uploaded_by, uploaded_by_role, category, note,
		file_name, file_type, file_size, storage_path, download_url, status,
		client_user_id, assigned_professional_ids, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.db.Exec(query,
		doc.ID,
		doc.ClientID,
		doc.UploadedBy,
		doc.UploadedByRole,
		doc.Category,
		doc.Note,
		doc.FileName,
		doc.FileType,
		doc.FileSize,
		doc.StoragePath,
		doc.DownloadURL,
		doc.Status,
		doc.ClientUserID,
		doc.AssignedProfessionalIDs,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

func (r *documentRepository) ByID(id string) (*model.Document, error) {
	doc := &model.Document{}
	query := `SELECT * FROM documents WHERE id = $1`

	err := r.db.Get(doc, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrDocumentNotFound
	}

	return doc, err
}

// ByClient lists a client's documents under the caller's scope. The
// scope predicate is applied in SQL against the denormalized columns;
// ordering is left to the caller (the array-membership filter cannot
// be combined with a server-side sort without a composite index).
func (r *documentRepository) ByClient(clientID string, scope access.Scope) ([]*model.Document, error) {
	query := `SELECT * FROM documents WHERE client_id = $1`
	args := []any{clientID}

	switch {
	case scope.ProfessionalID != "":
		query += ` AND ` + membershipPredicate(r.db.DriverName(), "documents.assigned_professional_ids", 2)
		args = append(args, scope.ProfessionalID)
	case scope.ClientUserID != "":
		query += ` AND client_user_id = $2`
		args = append(args, scope.ClientUserID)
	}
	query += fmt.Sprintf(` LIMIT %d`, scopedListLimit)

	var docs []*model.Document
	err := r.db.Select(&docs, query, args...)
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// Recent returns newest documents for the admin dashboard (sorted and
// truncated in SQL) or the scoped candidate set for everyone else
// (sorting deferred to the caller).
func (r *documentRepository) Recent(scope access.Scope, limit int) ([]*model.Document, error) {
	var docs []*model.Document

	switch {
	case scope.All:
		query := `SELECT * FROM documents ORDER BY created_at DESC LIMIT $1`
		err := r.db.Select(&docs, query, limit)
		if err != nil {
			return nil, err
		}
	case scope.ProfessionalID != "":
		query := fmt.Sprintf(`SELECT * FROM documents
			WHERE %s
			LIMIT 50`, membershipPredicate(r.db.DriverName(), "documents.assigned_professional_ids", 1))
		err := r.db.Select(&docs, query, scope.ProfessionalID)
		if err != nil {
			return nil, err
		}
	case scope.ClientUserID != "":
		query := `SELECT * FROM documents WHERE client_user_id = $1 LIMIT 50`
		err := r.db.Select(&docs, query, scope.ClientUserID)
		if err != nil {
			return nil, err
		}
	}

	return docs, nil
}

func (r *documentRepository) ByProfessional(professionalID string, limit int) ([]*model.Document, error) {
	var docs []*model.Document
	query := fmt.Sprintf(`SELECT * FROM documents
		WHERE %s
		LIMIT %d`, membershipPredicate(r.db.DriverName(), "documents.assigned_professional_ids", 1), limit)

	err := r.db.Select(&docs, query, professionalID)
	if err != nil {
		return nil, err
	}

	return docs, nil
}

func (r *documentRepository) UpdateStatus(id string, status model.DocumentStatus, note *string) error {
	var result sql.Result
	var err error

	if note != nil {
		result, err = r.db.Exec(
			`UPDATE documents SET status = $1, note = $2, updated_at = $3 WHERE id = $4`,
			status, *note, time.Now(), id,
		)
	} else {
		result, err = r.db.Exec(
			`UPDATE documents SET status = $1, updated_at = $2 WHERE id = $3`,
			status, time.Now(), id,
		)
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

func (r *documentRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM documents WHERE id = $1`, id)
	return err
}

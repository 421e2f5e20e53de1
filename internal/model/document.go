package model

import "time"

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// Document is an uploaded file record. ClientUserID and
// AssignedProfessionalIDs are copied verbatim from the owning Client
// at upload time so list queries can filter by permission without a
// join. The copy is not kept in sync when the client is reassigned.
type Document struct {
	ID             string         `db:"id" json:"id"`
	ClientID       string         `db:"client_id" json:"client_id"`
	UploadedBy     string         `db:"uploaded_by" json:"uploaded_by"`
	UploadedByRole Role           `db:"uploaded_by_role" json:"uploaded_by_role"`
	Category       string         `db:"category" json:"category"`
	Note           string         `db:"note" json:"note"`
	FileName       string         `db:"file_name" json:"file_name"`
	FileType       string         `db:"file_type" json:"file_type"`
	FileSize       int64          `db:"file_size" json:"file_size"`
	StoragePath    string         `db:"storage_path" json:"-"`
	DownloadURL    string         `db:"download_url" json:"download_url"`
	Status         DocumentStatus `db:"status" json:"status"`

	// Denormalized permission fields, see access.Grants.
	ClientUserID            *string    `db:"client_user_id" json:"-"`
	AssignedProfessionalIDs StringList `db:"assigned_professional_ids" json:"-"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

var ErrClientNotFound = errors.New("client not found")

// scopedListLimit caps non-admin scoped listings; the filtered result
// is sorted by the caller in memory, so the query stays index free.
const scopedListLimit = 100

type ClientRepository interface {
	Create(client *model.Client) error
	ByID(id string) (*model.Client, error)
	List(scope access.Scope) ([]*model.Client, error)
	ByLinkedUser(userID string) (*model.Client, error)
	LinkedUserTaken(userID, excludeClientID string) (bool, error)
	Update(client *model.Client) error
	SetAssignedProfessionals(id string, professionalIDs model.StringList) error
	Delete(id string) error
}

type clientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(client *model.Client) error {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	now := time.Now()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = now
	}
	client.UpdatedAt = now

	query := `INSERT INTO clients (id, user_id, name, email, assigned_professional_ids, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		client.ID,
		client.UserID,
		client.Name,
		client.Email,
		client.AssignedProfessionalIDs,
		client.Active,
		client.CreatedAt,
		client.UpdatedAt,
	)
	return err
}

func (r *clientRepository) ByID(id string) (*model.Client, error) {
	client := &model.Client{}
	query := `SELECT * FROM clients WHERE id = $1`

	err := r.db.Get(client, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}

	return client, err
}

func (r *clientRepository) List(scope access.Scope) ([]*model.Client, error) {
	var clients []*model.Client

	switch {
	case scope.All:
		err := r.db.Select(&clients, `SELECT * FROM clients ORDER BY created_at DESC`)
		if err != nil {
			return nil, err
		}
	case scope.ProfessionalID != "":
		query := fmt.Sprintf(`SELECT * FROM clients
			WHERE active = $1
			AND %s
			LIMIT %d`, membershipPredicate(r.db.DriverName(), "clients.assigned_professional_ids", 2), scopedListLimit)
		err := r.db.Select(&clients, query, true, scope.ProfessionalID)
		if err != nil {
			return nil, err
		}
	case scope.ClientUserID != "":
		query := `SELECT * FROM clients WHERE active = $1 AND user_id = $2 LIMIT 1`
		err := r.db.Select(&clients, query, true, scope.ClientUserID)
		if err != nil {
			return nil, err
		}
	}

	return clients, nil
}

func (r *clientRepository) ByLinkedUser(userID string) (*model.Client, error) {
	client := &model.Client{}
	query := `SELECT * FROM clients WHERE user_id = $1 AND active = $2 LIMIT 1`

	err := r.db.Get(client, query, userID, true)
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}

	return client, err
}

// LinkedUserTaken reports whether another client record already
// references the given portal user. Used to enforce the one login per
// client invariant before a write.
func (r *clientRepository) LinkedUserTaken(userID, excludeClientID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM clients WHERE user_id = $1 AND id != $2`

	err := r.db.Get(&count, query, userID, excludeClientID)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *clientRepository) Update(client *model.Client) error {
	client.UpdatedAt = time.Now()

	query := `UPDATE clients SET user_id = $1, name = $2, email = $3, active = $4, updated_at = $5 WHERE id = $6`

	result, err := r.db.Exec(query,
		client.UserID,
		client.Name,
		client.Email,
		client.Active,
		client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrClientNotFound
	}

	return nil
}

// SetAssignedProfessionals replaces the whole assignment set. Existing
// documents and todos keep their denormalized copy.
func (r *clientRepository) SetAssignedProfessionals(id string, professionalIDs model.StringList) error {
	query := `UPDATE clients SET assigned_professional_ids = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(query, professionalIDs, time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrClientNotFound
	}

	return nil
}

func (r *clientRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM clients WHERE id = $1`, id)
	return err
}

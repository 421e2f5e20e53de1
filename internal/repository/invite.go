package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

var (
	ErrInviteNotFound  = errors.New("invite not found")
	ErrDuplicateInvite = errors.New("invite already exists for this email")
)

type InviteRepository interface {
	Create(invite *model.Invite) error
	ByEmail(email string) (*model.Invite, error)
	All() ([]*model.Invite, error)
	Delete(email string) error
}

type inviteRepository struct {
	db *sqlx.DB
}

func NewInviteRepository(db *sqlx.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(invite *model.Invite) error {
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now()
	}

	query := `INSERT INTO invites (email, name, role, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, invite.Email, invite.Name, invite.Role, invite.CreatedAt)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateInvite
		}
		return err
	}

	return nil
}

func (r *inviteRepository) ByEmail(email string) (*model.Invite, error) {
	invite := &model.Invite{}
	query := `SELECT * FROM invites WHERE email = $1`

	err := r.db.Get(invite, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrInviteNotFound
	}

	return invite, err
}

func (r *inviteRepository) All() ([]*model.Invite, error) {
	var invites []*model.Invite
	query := `SELECT * FROM invites ORDER BY created_at DESC`

	err := r.db.Select(&invites, query)
	if err != nil {
		return nil, err
	}

	return invites, nil
}

func (r *inviteRepository) Delete(email string) error {
	_, err := r.db.Exec(`DELETE FROM invites WHERE email = $1`, email)
	return err
}

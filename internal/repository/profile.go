package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(profile *model.Profile) error
	ByUserID(userID string) (*model.Profile, error)
	ByEmail(email string) (*model.Profile, error)
	All() ([]*model.Profile, error)
	Professionals() ([]*model.Profile, error)
	SetActive(userID string, active bool) error
	Delete(userID string) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(profile *model.Profile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	query := `INSERT INTO profiles (user_id, email, name, role, active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		profile.UserID,
		profile.Email,
		profile.Name,
		profile.Role,
		profile.Active,
		profile.CreatedAt,
	)
	return err
}

func (r *profileRepository) ByUserID(userID string) (*model.Profile, error) {
	profile := &model.Profile{}
	query := `SELECT * FROM profiles WHERE user_id = $1`

	err := r.db.Get(profile, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}

	return profile, err
}

func (r *profileRepository) ByEmail(email string) (*model.Profile, error) {
	profile := &model.Profile{}
	query := `SELECT * FROM profiles WHERE email = $1`

	err := r.db.Get(profile, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}

	return profile, err
}

func (r *profileRepository) All() ([]*model.Profile, error) {
	var profiles []*model.Profile
	query := `SELECT * FROM profiles ORDER BY created_at DESC`

	err := r.db.Select(&profiles, query)
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileRepository) Professionals() ([]*model.Profile, error) {
	var profiles []*model.Profile
	query := `SELECT * FROM profiles WHERE role = $1 AND active = $2 ORDER BY name`

	err := r.db.Select(&profiles, query, model.RoleProfessional, true)
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileRepository) SetActive(userID string, active bool) error {
	result, err := r.db.Exec(`UPDATE profiles SET active = $1 WHERE user_id = $2`, active, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *profileRepository) Delete(userID string) error {
	_, err := r.db.Exec(`DELETE FROM profiles WHERE user_id = $1`, userID)
	return err
}

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

var ErrTodoNotFound = errors.New("todo not found")

type TodoRepository interface {
	Create(todo *model.Todo) error
	ByID(id string) (*model.Todo, error)
	ByClient(clientID string, scope access.Scope) ([]*model.Todo, error)
	RecentOpen(scope access.Scope, limit int) ([]*model.Todo, error)
	UpdateStatus(id string, status model.TodoStatus, resolvedAt *time.Time) error
}

type todoRepository struct {
	db *sqlx.DB
}

func NewTodoRepository(db *sqlx.DB) TodoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) Create(todo *model.Todo) error {
	now := time.Now()
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = now
	}
	todo.UpdatedAt = now

	query := `INSERT INTO todos (
		id, client_id, title, description, created_by, created_by_role, assigned_to,
		status, client_user_id, assigned_professional_ids, resolved_at, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(query,
		todo.ID,
		todo.ClientID,
		todo.Title,
		todo.Description,
		todo.CreatedBy,
		todo.CreatedByRole,
		todo.AssignedTo,
		todo.Status,
		todo.ClientUserID,
		todo.AssignedProfessionalIDs,
		todo.ResolvedAt,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	return err
}

func (r *todoRepository) ByID(id string) (*model.Todo, error) {
	todo := &model.Todo{}
	query := `SELECT * FROM todos WHERE id = $1`

	err := r.db.Get(todo, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrTodoNotFound
	}

	return todo, err
}

func (r *todoRepository) ByClient(clientID string, scope access.Scope) ([]*model.Todo, error) {
	query := `SELECT * FROM todos WHERE client_id = $1`
	args := []any{clientID}

	switch {
	case scope.ProfessionalID != "":
		query += ` AND ` + membershipPredicate(r.db.DriverName(), "todos.assigned_professional_ids", 2)
		args = append(args, scope.ProfessionalID)
	case scope.ClientUserID != "":
		query += ` AND client_user_id = $2`
		args = append(args, scope.ClientUserID)
	}
	query += fmt.Sprintf(` LIMIT %d`, scopedListLimit)

	var todos []*model.Todo
	err := r.db.Select(&todos, query, args...)
	if err != nil {
		return nil, err
	}

	return todos, nil
}

func (r *todoRepository) RecentOpen(scope access.Scope, limit int) ([]*model.Todo, error) {
	var todos []*model.Todo

	switch {
	case scope.All:
		query := `SELECT * FROM todos WHERE status = $1 ORDER BY created_at DESC LIMIT $2`
		err := r.db.Select(&todos, query, model.TodoStatusOpen, limit)
		if err != nil {
			return nil, err
		}
	case scope.ProfessionalID != "":
		query := fmt.Sprintf(`SELECT * FROM todos
			WHERE status = $1
			AND %s
			LIMIT 50`, membershipPredicate(r.db.DriverName(), "todos.assigned_professional_ids", 2))
		err := r.db.Select(&todos, query, model.TodoStatusOpen, scope.ProfessionalID)
		if err != nil {
			return nil, err
		}
	case scope.ClientUserID != "":
		query := `SELECT * FROM todos WHERE status = $1 AND client_user_id = $2 LIMIT 50`
		err := r.db.Select(&todos, query, model.TodoStatusOpen, scope.ClientUserID)
		if err != nil {
			return nil, err
		}
	}

	return todos, nil
}

func (r *todoRepository) UpdateStatus(id string, status model.TodoStatus, resolvedAt *time.Time) error {
	var result sql.Result
	var err error

	if resolvedAt != nil {
		result, err = r.db.Exec(
			`UPDATE todos SET status = $1, resolved_at = $2, updated_at = $3 WHERE id = $4`,
			status, *resolvedAt, time.Now(), id,
		)
	} else {
		result, err = r.db.Exec(
			`UPDATE todos SET status = $1, updated_at = $2 WHERE id = $3`,
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
		return ErrTodoNotFound
	}

	return nil
}

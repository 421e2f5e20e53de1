package service

import (
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/repository"
)

var (
	ErrTodoNotOpen     = errors.New("task is not open")
	ErrWrongAudience   = errors.New("task is addressed to a different audience")
	ErrInvalidAudience = errors.New("invalid task audience")
)

// TodoInput carries a new task. Grants are supplied by the caller from
// the client record it already loaded.
type TodoInput struct {
	ClientID    string
	Title       string
	Description string
	AssignedTo  model.TodoAudience
}

type TodoService struct {
	todoRepository repository.TodoRepository
	audit          *AuditService
}

func NewTodoService(todoRepository repository.TodoRepository, audit *AuditService) *TodoService {
	return &TodoService{
		todoRepository: todoRepository,
		audit:          audit,
	}
}

func (s *TodoService) Create(input TodoInput, grants access.Grants, actor access.Actor) (*model.Todo, error) {
	if input.AssignedTo != model.TodoAudienceClient && input.AssignedTo != model.TodoAudienceProfessional {
		return nil, ErrInvalidAudience
	}

	todo := &model.Todo{
		ID:                      uuid.New().String(),
		ClientID:                input.ClientID,
		Title:                   input.Title,
		Description:             input.Description,
		CreatedBy:               actor.ID,
		CreatedByRole:           actor.Role,
		AssignedTo:              input.AssignedTo,
		Status:                  model.TodoStatusOpen,
		ClientUserID:            grants.ClientUserID,
		AssignedProfessionalIDs: grants.AssignedProfessionalIDs,
	}

	err := s.todoRepository.Create(todo)
	if err != nil {
		return nil, err
	}

	s.audit.Record("todo_created", "todos", todo.ID, actor, map[string]any{
		"client_id":   input.ClientID,
		"assigned_to": string(input.AssignedTo),
	})

	return todo, nil
}

// ByClient lists a client's tasks visible to the caller, newest first.
func (s *TodoService) ByClient(clientID string, actor access.Actor) ([]*model.Todo, error) {
	todos, err := s.todoRepository.ByClient(clientID, access.ScopeFor(actor))
	if err != nil {
		return nil, err
	}

	sortTodosNewestFirst(todos)
	return todos, nil
}

// RecentOpen returns open tasks for the dashboard, addressed to the
// caller's audience where one applies.
func (s *TodoService) RecentOpen(limit int, actor access.Actor) ([]*model.Todo, error) {
	if limit <= 0 {
		limit = 5
	}

	scope := access.ScopeFor(actor)
	todos, err := s.todoRepository.RecentOpen(scope, limit)
	if err != nil {
		return nil, err
	}

	if audience, ok := audienceFor(actor.Role); ok {
		filtered := todos[:0]
		for _, todo := range todos {
			if todo.AssignedTo == audience {
				filtered = append(filtered, todo)
			}
		}
		todos = filtered
	}

	sortTodosNewestFirst(todos)
	if len(todos) > limit {
		todos = todos[:limit]
	}

	return todos, nil
}

// Resolve closes an open task. Only the audience the task is addressed
// to may resolve it; admins may resolve anything they can see.
func (s *TodoService) Resolve(id string, actor access.Actor) (*model.Todo, error) {
	todo, err := s.todoRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	if !todoGrants(todo).Allows(access.ScopeFor(actor)) {
		return nil, ErrNotPermitted
	}

	if actor.Role != model.RoleAdmin {
		audience, ok := audienceFor(actor.Role)
		if !ok || todo.AssignedTo != audience {
			return nil, ErrWrongAudience
		}
	}

	if todo.Status != model.TodoStatusOpen {
		return nil, ErrTodoNotOpen
	}

	now := time.Now()
	err = s.todoRepository.UpdateStatus(id, model.TodoStatusResolved, &now)
	if err != nil {
		return nil, err
	}

	todo.Status = model.TodoStatusResolved
	todo.ResolvedAt = &now

	s.audit.Record("todo_resolved", "todos", id, actor, nil)
	return todo, nil
}

// OpenCount counts open tasks addressed to the caller, for the
// dashboard badge.
func (s *TodoService) OpenCount(actor access.Actor) (int, error) {
	todos, err := s.todoRepository.RecentOpen(access.ScopeFor(actor), 100)
	if err != nil {
		return 0, err
	}

	audience, hasAudience := audienceFor(actor.Role)
	count := 0
	for _, todo := range todos {
		if hasAudience && todo.AssignedTo != audience {
			continue
		}
		count++
	}
	if count == 100 {
		slog.Debug("open task count hit the fetch limit", "actor", actor.ID)
	}
	return count, nil
}

func audienceFor(role model.Role) (model.TodoAudience, bool) {
	switch role {
	case model.RoleClient:
		return model.TodoAudienceClient, true
	case model.RoleProfessional:
		return model.TodoAudienceProfessional, true
	default:
		return "", false
	}
}

func todoGrants(todo *model.Todo) access.Grants {
	return access.Grants{
		ClientUserID:            todo.ClientUserID,
		AssignedProfessionalIDs: todo.AssignedProfessionalIDs,
	}
}

func sortTodosNewestFirst(todos []*model.Todo) {
	sort.Slice(todos, func(i, j int) bool {
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
}

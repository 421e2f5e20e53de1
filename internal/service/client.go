package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/repository"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/validation"
)

var (
	// ErrUserAlreadyLinked enforces the one-login-per-client invariant.
	ErrUserAlreadyLinked = errors.New("this user is already linked to another client")
	ErrNotPermitted      = errors.New("not permitted for this record")
)

// ClientInput carries the writable client fields.
type ClientInput struct {
	UserID *string
	Name   string
	Email  string
	Active *bool
}

type ClientService struct {
	clientRepository repository.ClientRepository
	audit            *AuditService
}

func NewClientService(clientRepository repository.ClientRepository, audit *AuditService) *ClientService {
	return &ClientService{
		clientRepository: clientRepository,
		audit:            audit,
	}
}

// Clients lists client accounts under the caller's scope. Admin rows
// come back sorted from the store; scoped rows are sorted here because
// the membership filter cannot be combined with a server-side sort.
func (s *ClientService) Clients(actor access.Actor) ([]*model.Client, error) {
	scope := access.ScopeFor(actor)

	clients, err := s.clientRepository.List(scope)
	if err != nil {
		return nil, err
	}

	if !scope.All {
		sort.Slice(clients, func(i, j int) bool {
			return clients[i].CreatedAt.After(clients[j].CreatedAt)
		})
	}

	return clients, nil
}

// Client fetches one client, enforcing the caller's scope against the
// record's own linkage fields.
func (s *ClientService) Client(id string, actor access.Actor) (*model.Client, error) {
	client, err := s.clientRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	grants := access.GrantsFromClient(client)
	if !grants.Allows(access.ScopeFor(actor)) {
		return nil, ErrNotPermitted
	}

	return client, nil
}

// MyClient resolves the active client record linked to a portal user,
// for the self-service area.
func (s *ClientService) MyClient(userID string) (*model.Client, error) {
	return s.clientRepository.ByLinkedUser(userID)
}

func (s *ClientService) Create(input ClientInput, actor access.Actor) (*model.Client, error) {
	err := validation.ValidateName(input.Name)
	if err != nil {
		return nil, err
	}

	if input.UserID != nil && *input.UserID != "" {
		taken, err := s.clientRepository.LinkedUserTaken(*input.UserID, "")
		if err != nil {
			return nil, fmt.Errorf("failed to check linked user: %w", err)
		}
		if taken {
			return nil, ErrUserAlreadyLinked
		}
	}

	client := &model.Client{
		UserID:                  input.UserID,
		Name:                    input.Name,
		Email:                   input.Email,
		AssignedProfessionalIDs: model.StringList{},
		Active:                  true,
	}
	err = s.clientRepository.Create(client)
	if err != nil {
		return nil, err
	}

	s.audit.Record("client_created", "clients", client.ID, actor, map[string]any{
		"name": client.Name,
	})

	return client, nil
}

// Update merges the given fields into the record, last writer wins.
func (s *ClientService) Update(id string, input ClientInput, actor access.Actor) (*model.Client, error) {
	client, err := s.clientRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	if input.UserID != nil && *input.UserID != "" {
		taken, err := s.clientRepository.LinkedUserTaken(*input.UserID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check linked user: %w", err)
		}
		if taken {
			return nil, ErrUserAlreadyLinked
		}
	}

	if input.Name != "" {
		err = validation.ValidateName(input.Name)
		if err != nil {
			return nil, err
		}
		client.Name = input.Name
	}
	if input.Email != "" {
		client.Email = input.Email
	}
	if input.UserID != nil {
		client.UserID = input.UserID
	}
	if input.Active != nil {
		client.Active = *input.Active
	}

	err = s.clientRepository.Update(client)
	if err != nil {
		return nil, err
	}

	s.audit.Record("client_updated", "clients", id, actor, map[string]any{
		"name":   client.Name,
		"active": client.Active,
	})

	return client, nil
}

// AssignProfessionals replaces the whole assignment set. Documents and
// todos created earlier keep their denormalized copy of the old set;
// see access.Reconciler for the (unused) re-sync hook.
func (s *ClientService) AssignProfessionals(clientID string, professionalIDs []string, actor access.Actor) error {
	ids := model.StringList(professionalIDs)
	if ids == nil {
		ids = model.StringList{}
	}

	err := s.clientRepository.SetAssignedProfessionals(clientID, ids)
	if err != nil {
		return err
	}

	s.audit.Record("professional_assigned", "clients", clientID, actor, map[string]any{
		"professional_ids": professionalIDs,
	})

	return nil
}

// Delete removes the client record only. Its documents and todos are
// left in place, matching the original system's behavior.
func (s *ClientService) Delete(id string, actor access.Actor) error {
	err := s.clientRepository.Delete(id)
	if err != nil {
		return err
	}

	s.audit.Record("delete_client", "clients", id, actor, nil)
	return nil
}

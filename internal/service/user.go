package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/repository"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/validation"
)

var (
	ErrEmailAlreadyRegistered = errors.New("a user with this email is already registered")
	ErrInvalidRole            = errors.New("invalid role")
)

// UserService manages profiles and the invite lifecycle.
type UserService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	inviteRepository  repository.InviteRepository
	authService       *AuthService
	emailService      *EmailService
	audit             *AuditService
}

func NewUserService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	inviteRepository repository.InviteRepository,
	authService *AuthService,
	emailService *EmailService,
	audit *AuditService,
) *UserService {
	return &UserService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		inviteRepository:  inviteRepository,
		authService:       authService,
		emailService:      emailService,
		audit:             audit,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

func (s *UserService) ProfileByUserID(userID string) (*model.Profile, error) {
	return s.profileRepository.ByUserID(userID)
}

// Users lists all profiles, newest first. Admin only.
func (s *UserService) Users() ([]*model.Profile, error) {
	return s.profileRepository.All()
}

// Professionals lists active professional profiles for assignment pickers.
func (s *UserService) Professionals() ([]*model.Profile, error) {
	return s.profileRepository.Professionals()
}

// SetActive toggles the only mutable profile field. Role never
// changes after creation. The call is idempotent: repeating it leaves
// the same state and records another audit entry.
func (s *UserService) SetActive(userID string, active bool, actor access.Actor) error {
	err := s.profileRepository.SetActive(userID, active)
	if err != nil {
		return err
	}

	s.audit.Record("update_user", "users", userID, actor, map[string]any{
		"active": active,
	})
	return nil
}

// DeleteUser removes the profile and the identity. A user that never
// completed setup has no profile, which is fine; an unknown id is a
// not-found, no audit entry is written for it.
func (s *UserService) DeleteUser(userID string, actor access.Actor) error {
	_, err := s.userRepository.ByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	err = s.profileRepository.Delete(userID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	err = s.userRepository.Delete(userID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.audit.Record("delete_user", "users", userID, actor, nil)
	return nil
}

func (s *UserService) Invites() ([]*model.Invite, error) {
	return s.inviteRepository.All()
}

// CreateInvite registers a pending invite and mails the setup link.
// Rejected when a profile already exists for the email (one identity
// per address); the invite itself is keyed by email, so a duplicate
// invite is rejected by the store.
func (s *UserService) CreateInvite(email, name string, role model.Role, actor access.Actor) (*model.Invite, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateName(name)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	_, err = s.profileRepository.ByEmail(email)
	if err == nil {
		return nil, ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	invite := &model.Invite{
		Email: email,
		Name:  strings.TrimSpace(name),
		Role:  role,
	}
	err = s.inviteRepository.Create(invite)
	if err != nil {
		return nil, err
	}

	s.audit.Record("create_invite", "invites", email, actor, map[string]any{
		"name": invite.Name,
		"role": string(role),
	})

	// The sign-in link needs an identity to attach to; create the
	// passwordless user up front. Redemption later adds the profile.
	user, err := s.userRepository.ByEmail(email)
	if errors.Is(err, repository.ErrUserNotFound) {
		user = &model.User{Email: email}
		err = s.userRepository.Create(user)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to prepare invited user: %w", err)
	}

	token, err := s.authService.CreateInviteLink(user.ID)
	if err != nil {
		return nil, err
	}

	err = s.emailService.SendInviteEmail(email, invite.Name, token, role)
	if err != nil {
		// The invite stands; the admin can delete and re-create it to
		// trigger a new email.
		slog.Warn("failed to send invite email", "error", err, "email", email)
	}

	return invite, nil
}

func (s *UserService) DeleteInvite(email string, actor access.Actor) error {
	email = strings.TrimSpace(strings.ToLower(email))

	err := s.inviteRepository.Delete(email)
	if err != nil {
		return err
	}

	s.audit.Record("delete_invite", "invites", email, actor, nil)
	return nil
}

package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/repository"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoInvite           = errors.New("no pending invite for this email")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService owns sessions and the invite redemption flow. A session
// alone is not enough to use the portal: authorization comes from the
// Profile created when the user's invite is redeemed.
type AuthService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	tokenRepository   repository.TokenRepository
	inviteRepository  repository.InviteRepository
	audit             *AuditService
	jwtSecret         string
	isProduction      bool
	jwtExpiry         time.Duration
	inviteLinkExpiry  time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	tokenRepository repository.TokenRepository,
	inviteRepository repository.InviteRepository,
	audit *AuditService,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
	inviteLinkExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		tokenRepository:   tokenRepository,
		inviteRepository:  inviteRepository,
		audit:             audit,
		jwtSecret:         jwtSecret,
		isProduction:      isProduction,
		jwtExpiry:         jwtExpiry,
		inviteLinkExpiry:  inviteLinkExpiry,
	}
}

func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.profileRepository.ByUserID(user.ID)
	if err == nil && !profile.Active {
		return nil, ErrAccountDisabled
	}

	return user, nil
}

// AuthenticateOAuth signs in a user by a provider-verified email,
// creating the identity record on first login. Whether that identity
// can actually do anything is decided later by invite redemption.
func (s *AuthService) AuthenticateOAuth(email, provider string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("oauth provider returned invalid email: %w", err)
	}

	user, err := s.userRepository.ByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user = &model.User{Email: email}
	err = s.userRepository.Create(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("created user from oauth login", "user_id", user.ID, "provider", provider)
	return user, nil
}

// CreateInviteLink issues a fresh single-use sign-in token for an
// invited user, replacing any previous one.
func (s *AuthService) CreateInviteLink(userID string) (string, error) {
	err := s.tokenRepository.DeleteByUserAndType(userID, model.TokenTypeInviteLink)
	if err != nil {
		slog.Warn("failed to delete old invite link tokens", "error", err, "user_id", userID)
	}

	raw, err := generateToken()
	if err != nil {
		return "", err
	}

	token := &model.Token{
		UserID:    userID,
		Type:      model.TokenTypeInviteLink,
		Token:     raw,
		ExpiresAt: time.Now().Add(s.inviteLinkExpiry),
	}
	err = s.tokenRepository.Create(token)
	if err != nil {
		return "", fmt.Errorf("failed to create invite token: %w", err)
	}

	return raw, nil
}

// ConsumeInviteLink redeems a single-use invite token and returns the
// signed-in user. A second redemption attempt fails.
func (s *AuthService) ConsumeInviteLink(raw string) (*model.User, error) {
	token, err := s.tokenRepository.ConsumeToken(raw)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to consume token: %w", err)
	}

	user, err := s.userRepository.ByID(token.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user for token: %w", err)
	}

	return user, nil
}

// Setup redeems the pending invite for a signed-in user: the profile
// is created with the invite's name and role, then the invite is
// deleted. Profile creation and invite deletion are two writes, not a
// transaction; a leftover invite after a crash is harmless because
// setup short-circuits once a profile exists.
func (s *AuthService) Setup(user *model.User, password string) (*model.Profile, error) {
	profile, err := s.profileRepository.ByUserID(user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to check profile: %w", err)
	}

	email := strings.TrimSpace(strings.ToLower(user.Email))
	invite, err := s.inviteRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			return nil, ErrNoInvite
		}
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}

	if password != "" {
		err = validation.ValidatePassword(password)
		if err != nil {
			return nil, err
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, hashErr
		}
		hashStr := string(hash)
		user.PasswordHash = &hashStr
		err = s.userRepository.Update(user)
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}
	}

	profile = &model.Profile{
		UserID: user.ID,
		Email:  email,
		Name:   invite.Name,
		Role:   invite.Role,
		Active: true,
	}
	err = s.profileRepository.Create(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	// Best effort: a dangling invite is cleaned up on the next setup.
	err = s.inviteRepository.Delete(invite.Email)
	if err != nil {
		slog.Warn("failed to delete redeemed invite", "error", err, "email", invite.Email)
	}

	actor := access.Actor{ID: user.ID, Role: profile.Role}
	s.audit.Record("user_setup", "users", user.ID, actor, map[string]any{
		"email": email,
		"role":  string(profile.Role),
	})

	slog.Info("invite redeemed", "user_id", user.ID, "role", profile.Role)
	return profile, nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) JWTExpiry() time.Duration {
	return s.jwtExpiry
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

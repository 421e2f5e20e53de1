package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/ctxkeys"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/repository"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/service"
)

// AuthMiddleware resolves the JWT cookie into a user and, when the
// invite was redeemed, a profile. A session without a profile is a
// legitimate state (the user is mid-setup), so a missing profile
// keeps the cookie; only an invalid token or a deleted user clears it.
func AuthMiddleware(authService *service.AuthService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("auth_token")
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyJWT(cookie.Value)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := claims["user_id"].(string)
			if !ok {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := userService.ByID(userID)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Never expose the hash downstream
			user.PasswordHash = nil

			ctx := ctxkeys.WithUser(r.Context(), user)

			profile, err := userService.ProfileByUserID(userID)
			if err == nil {
				ctx = ctxkeys.WithProfile(ctx, profile)
			} else if !errors.Is(err, repository.ErrProfileNotFound) {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession only demands a signed-in user; the setup endpoint
// runs before a profile exists.
func RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			deny(w, http.StatusUnauthorized, "authentication required", "/login")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireAuth demands a signed-in user with a redeemed, active
// profile. The three failure states each point the client somewhere
// different: no session to the login page, no profile to setup, and a
// disabled account back to login.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			deny(w, http.StatusUnauthorized, "authentication required", "/login")
			return
		}

		profile := ctxkeys.Profile(r.Context())
		if profile == nil {
			deny(w, http.StatusForbidden, "account setup required", "/setup")
			return
		}

		if !profile.Active {
			deny(w, http.StatusForbidden, "account is disabled", "/login")
			return
		}

		next.ServeHTTP(w, r)
	}
}

// RequireCapability layers a role check on top of RequireAuth.
func RequireCapability(action access.Action, next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		profile := ctxkeys.Profile(r.Context())
		if !access.Can(profile.Role, action) {
			deny(w, http.StatusForbidden, "not allowed for this role", "/")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireGuest keeps signed-in users off the login endpoints.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) != nil {
			deny(w, http.StatusForbidden, "already signed in", "/")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func deny(w http.ResponseWriter, status int, message, redirect string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":    message,
		"redirect": redirect,
	})
}

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/ctxkeys"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/repository"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps the service sentinels onto HTTP statuses.
// Anything unrecognized is a 500 and gets logged with full detail; the
// client only sees a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, repository.ErrClientNotFound),
		errors.Is(err, repository.ErrDocumentNotFound),
		errors.Is(err, repository.ErrTodoNotFound),
		errors.Is(err, repository.ErrInviteNotFound),
		errors.Is(err, repository.ErrTokenNotFound):
		respondError(w, http.StatusNotFound, "not found")

	case errors.Is(err, service.ErrNotPermitted):
		respondError(w, http.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrAccountDisabled),
		errors.Is(err, service.ErrNoInvite),
		errors.Is(err, service.ErrWrongAudience):
		respondError(w, http.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrEmailAlreadyRegistered),
		errors.Is(err, service.ErrUserAlreadyLinked),
		errors.Is(err, service.ErrStatusFinal),
		errors.Is(err, service.ErrTodoNotOpen),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, repository.ErrDuplicateInvite):
		respondError(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidAudience):
		respondError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, err.Error())

	default:
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// actorFrom builds the access actor from the profile the auth
// middleware resolved. Guarded routes always have one.
func actorFrom(r *http.Request) access.Actor {
	profile := ctxkeys.Profile(r.Context())
	if profile == nil {
		return access.Actor{}
	}
	return access.Actor{ID: profile.UserID, Role: profile.Role}
}

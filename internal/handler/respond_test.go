package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/repository"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/service"
)

func TestServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing record", repository.ErrClientNotFound, http.StatusNotFound},
		{"out of scope", service.ErrNotPermitted, http.StatusForbidden},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"no invite", service.ErrNoInvite, http.StatusForbidden},
		{"linked user conflict", service.ErrUserAlreadyLinked, http.StatusConflict},
		{"reviewed document", service.ErrStatusFinal, http.StatusConflict},
		{"duplicate invite", repository.ErrDuplicateInvite, http.StatusConflict},
		{"bad role", service.ErrInvalidRole, http.StatusBadRequest},
		{"stale invite link", service.ErrInvalidToken, http.StatusUnauthorized},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
			respondServiceError(w, r, tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

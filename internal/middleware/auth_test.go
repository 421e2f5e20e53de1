package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/ctxkeys"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

func okHandler(called *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}
}

func requestWith(t *testing.T, user *model.User, profile *model.Profile) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	ctx := r.Context()
	if user != nil {
		ctx = ctxkeys.WithUser(ctx, user)
	}
	if profile != nil {
		ctx = ctxkeys.WithProfile(ctx, profile)
	}
	return r.WithContext(ctx)
}

func decodeDeny(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestRequireAuthWithoutSession(t *testing.T) {
	called := false
	w := httptest.NewRecorder()
	RequireAuth(okHandler(&called))(w, requestWith(t, nil, nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", decodeDeny(t, w)["redirect"])
}

func TestRequireAuthWithoutProfile(t *testing.T) {
	called := false
	w := httptest.NewRecorder()
	RequireAuth(okHandler(&called))(w, requestWith(t, &model.User{ID: "u1"}, nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "/setup", decodeDeny(t, w)["redirect"])
}

func TestRequireAuthDisabledProfile(t *testing.T) {
	called := false
	w := httptest.NewRecorder()
	profile := &model.Profile{UserID: "u1", Role: model.RoleClient, Active: false}
	RequireAuth(okHandler(&called))(w, requestWith(t, &model.User{ID: "u1"}, profile))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "/login", decodeDeny(t, w)["redirect"])
}

func TestRequireAuthPasses(t *testing.T) {
	called := false
	w := httptest.NewRecorder()
	profile := &model.Profile{UserID: "u1", Role: model.RoleClient, Active: true}
	RequireAuth(okHandler(&called))(w, requestWith(t, &model.User{ID: "u1"}, profile))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireCapabilityBlocksWrongRole(t *testing.T) {
	called := false
	w := httptest.NewRecorder()
	profile := &model.Profile{UserID: "u1", Role: model.RoleClient, Active: true}
	RequireCapability(access.ActionManageUsers, okHandler(&called))(w, requestWith(t, &model.User{ID: "u1"}, profile))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "/", decodeDeny(t, w)["redirect"])
}

func TestRequireCapabilityAllowsAdmin(t *testing.T) {
	called := false
	w := httptest.NewRecorder()
	profile := &model.Profile{UserID: "u1", Role: model.RoleAdmin, Active: true}
	RequireCapability(access.ActionManageUsers, okHandler(&called))(w, requestWith(t, &model.User{ID: "u1"}, profile))

	assert.True(t, called)
}

func TestRequireSessionAllowsProfilelessUser(t *testing.T) {
	called := false
	w := httptest.NewRecorder()
	RequireSession(okHandler(&called))(w, requestWith(t, &model.User{ID: "u1"}, nil))

	assert.True(t, called)
}

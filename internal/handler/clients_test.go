package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/repository"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/service"
)

// stubClientRepo serves only the Update path; anything else panics
// through the embedded nil interface.
type stubClientRepo struct {
	repository.ClientRepository
}

func (stubClientRepo) ByID(id string) (*model.Client, error) {
	return &model.Client{ID: id, Name: "Acme Ltda"}, nil
}

func (stubClientRepo) Update(client *model.Client) error { return nil }

type stubAuditRepo struct{}

func (stubAuditRepo) Create(entry *model.AuditEntry) error          { return nil }
func (stubAuditRepo) Recent(limit int) ([]*model.AuditEntry, error) { return nil, nil }

func newClientUpdateHandler() *clientHandler {
	return NewClientHandler(service.NewClientService(stubClientRepo{}, service.NewAuditService(stubAuditRepo{})))
}

func TestClientUpdateRejectsOverlongName(t *testing.T) {
	h := newClientUpdateHandler()

	body := `{"name": "` + strings.Repeat("a", 101) + `"}`
	r := httptest.NewRequest(http.MethodPut, "/api/clients/c1", strings.NewReader(body))
	r.SetPathValue("id", "c1")

	w := httptest.NewRecorder()
	h.Update(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name is too long")
}

func TestClientUpdateAllowsOmittedName(t *testing.T) {
	h := newClientUpdateHandler()

	r := httptest.NewRequest(http.MethodPut, "/api/clients/c1", strings.NewReader(`{"email": "novo@acme.test"}`))
	r.SetPathValue("id", "c1")

	w := httptest.NewRecorder()
	h.Update(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "novo@acme.test")
}

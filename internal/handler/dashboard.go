package handler

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/service"
)

const dashboardRecentLimit = 5

type dashboardHandler struct {
	clientService   *service.ClientService
	documentService *service.DocumentService
	todoService     *service.TodoService
}

func NewDashboardHandler(clientService *service.ClientService, documentService *service.DocumentService, todoService *service.TodoService) *dashboardHandler {
	return &dashboardHandler{
		clientService:   clientService,
		documentService: documentService,
		todoService:     todoService,
	}
}

// Summary aggregates the role's landing page in one response. The
// reads are independent, so they run concurrently; the first failure
// cancels the rest.
func (h *dashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	var (
		clients      []*model.Client
		documents    []*model.Document
		todos        []*model.Todo
		openCount    int
		pendingCount int
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		clients, err = h.clientService.Clients(actor)
		return err
	})
	g.Go(func() error {
		var err error
		documents, err = h.documentService.Recent(dashboardRecentLimit, actor)
		return err
	})
	g.Go(func() error {
		var err error
		todos, err = h.todoService.RecentOpen(dashboardRecentLimit, actor)
		return err
	})
	g.Go(func() error {
		var err error
		openCount, err = h.todoService.OpenCount(actor)
		return err
	})
	if actor.Role == model.RoleProfessional {
		g.Go(func() error {
			var err error
			pendingCount, err = h.documentService.PendingCount(actor)
			return err
		})
	}

	err := g.Wait()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := map[string]any{
		"client_count":     len(clients),
		"recent_documents": documents,
		"open_todos":       todos,
		"open_todo_count":  openCount,
	}
	if actor.Role == model.RoleProfessional {
		resp["pending_documents"] = pendingCount
	}
	respondJSON(w, http.StatusOK, resp)
}

package handler

import (
	"net/http"
	"strings"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/service"
)

type todoHandler struct {
	todoService   *service.TodoService
	clientService *service.ClientService
}

func NewTodoHandler(todoService *service.TodoService, clientService *service.ClientService) *todoHandler {
	return &todoHandler{
		todoService:   todoService,
		clientService: clientService,
	}
}

func (h *todoHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	// Scope check and permission copy in one load
	client, err := h.clientService.Client(r.PathValue("id"), actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		AssignedTo  string `json:"assigned_to"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	todo, err := h.todoService.Create(service.TodoInput{
		ClientID:    client.ID,
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		AssignedTo:  model.TodoAudience(req.AssignedTo),
	}, access.GrantsFromClient(client), actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"todo": todo})
}

func (h *todoHandler) ByClient(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todoService.ByClient(r.PathValue("id"), actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"todos": todos})
}

func (h *todoHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	todo, err := h.todoService.Resolve(r.PathValue("id"), actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"todo": todo})
}

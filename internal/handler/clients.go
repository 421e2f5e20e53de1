package handler

import (
	"net/http"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/ctxkeys"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/service"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/validation"
)

type clientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *clientHandler {
	return &clientHandler{clientService: clientService}
}

func (h *clientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientService.Clients(actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (h *clientHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, err := h.clientService.Client(r.PathValue("id"), actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"client": client})
}

// My resolves the client record linked to the signed-in portal user.
func (h *clientHandler) My(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	client, err := h.clientService.MyClient(user.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"client": client})
}

type clientRequest struct {
	UserID *string `json:"user_id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Active *bool   `json:"active"`
}

func (h *clientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := validation.ValidateName(req.Name)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	client, err := h.clientService.Create(service.ClientInput{
		UserID: req.UserID,
		Name:   req.Name,
		Email:  req.Email,
		Active: req.Active,
	}, actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"client": client})
}

func (h *clientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Empty name means unchanged; anything else must be valid.
	if req.Name != "" {
		err := validation.ValidateName(req.Name)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	client, err := h.clientService.Update(r.PathValue("id"), service.ClientInput{
		UserID: req.UserID,
		Name:   req.Name,
		Email:  req.Email,
		Active: req.Active,
	}, actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"client": client})
}

func (h *clientHandler) AssignProfessionals(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProfessionalIDs []string `json:"professional_ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	clientID := r.PathValue("id")
	err := h.clientService.AssignProfessionals(clientID, req.ProfessionalIDs, actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"client_id":        clientID,
		"professional_ids": req.ProfessionalIDs,
	})
}

func (h *clientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.clientService.Delete(id, actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/service"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/validation"
)

type userHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *userHandler {
	return &userHandler{userService: userService}
}

func (h *userHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.userService.Users()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": profiles})
}

// Professionals feeds the assignment picker on the client form.
func (h *userHandler) Professionals(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.userService.Professionals()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"professionals": profiles})
}

func (h *userHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	var req struct {
		Active *bool `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Active == nil {
		respondError(w, http.StatusBadRequest, "active is required")
		return
	}

	err := h.userService.SetActive(userID, *req.Active, actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user_id": userID, "active": *req.Active})
}

func (h *userHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	err := h.userService.DeleteUser(userID, actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	slog.Info("user deleted", "user_id", userID, "actor", actorFrom(r).ID)
	respondJSON(w, http.StatusOK, map[string]string{"deleted": userID})
}

func (h *userHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.userService.Invites()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"invites": invites})
}

func (h *userHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Role  string `json:"role"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	err := validation.ValidateEmail(strings.TrimSpace(req.Email))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	err = validation.ValidateName(req.Name)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	invite, err := h.userService.CreateInvite(req.Email, req.Name, model.Role(req.Role), actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"invite": invite})
}

func (h *userHandler) DeleteInvite(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PathValue("email"))

	err := h.userService.DeleteInvite(email, actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": email})
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/service"
)

type auditHandler struct {
	auditService *service.AuditService
}

func NewAuditHandler(auditService *service.AuditService) *auditHandler {
	return &auditHandler{auditService: auditService}
}

func (h *auditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.auditService.Recent(limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

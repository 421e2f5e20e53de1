package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/service"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/validation"
)

type documentHandler struct {
	documentService *service.DocumentService
	clientService   *service.ClientService
	maxUploadSize   int64
}

func NewDocumentHandler(documentService *service.DocumentService, clientService *service.ClientService, maxUploadSize int64) *documentHandler {
	return &documentHandler{
		documentService: documentService,
		clientService:   clientService,
		maxUploadSize:   maxUploadSize,
	}
}

// Upload receives a multipart file for a client the caller can see.
// The client record is loaded once, both for the scope check and for
// the permission copy stamped onto the new document.
func (h *documentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	client, err := h.clientService.Client(r.PathValue("id"), actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	err = r.ParseMultipartForm(h.maxUploadSize)
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close uploaded file", "error", closeErr)
		}
	}()

	err = validation.ValidateFile(header, validation.DocumentConstraints)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := strings.TrimSpace(r.FormValue("category"))
	if category == "" {
		respondError(w, http.StatusBadRequest, "category is required")
		return
	}

	doc, err := h.documentService.Upload(service.UploadInput{
		ClientID:       client.ID,
		UploadedBy:     actor.ID,
		UploadedByRole: actor.Role,
		Category:       category,
		Note:           strings.TrimSpace(r.FormValue("note")),
		FileName:       header.Filename,
		FileType:       header.Header.Get("Content-Type"),
		FileSize:       header.Size,
		File:           file,
	}, access.GrantsFromClient(client), uploadProgressLogger(header.Filename))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"document": doc})
}

func (h *documentHandler) ByClient(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documentService.ByClient(r.PathValue("id"), actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *documentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string  `json:"status"`
		Note   *string `json:"note"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	doc, err := h.documentService.SetStatus(r.PathValue("id"), model.DocumentStatus(req.Status), req.Note, actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"document": doc})
}

// Download answers with a fresh presigned URL; the stored one may have
// expired long ago.
func (h *documentHandler) Download(w http.ResponseWriter, r *http.Request) {
	url, err := h.documentService.DownloadURL(r.PathValue("id"), actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *documentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.documentService.Delete(id, actorFrom(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// uploadProgressLogger traces transfer progress at coarse steps. The
// callback reports 100 only after storage confirms the write.
func uploadProgressLogger(fileName string) func(percent int) {
	lastLogged := -1
	return func(percent int) {
		if percent == 100 || percent >= lastLogged+25 {
			lastLogged = percent
			slog.Debug("upload progress", "file", fileName, "percent", percent)
		}
	}
}

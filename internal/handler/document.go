package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"parakeet/internal/config"
	"parakeet/internal/httputil"
	"parakeet/internal/service"
)

// DocumentHandler handles document upload, metadata, payload and link
// HTTP requests.
type DocumentHandler struct {
	service *service.DocumentService
	logger  *slog.Logger
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(svc *service.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{service: svc, logger: logger}
}

// Upload handles POST /api/documents/upload (multipart, field "file")
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer file.Close()

	doc, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// List handles GET /api/documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	linkedType, linkedID, err := markupContext(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	docs, err := h.service.List(r.Context(), linkedType, linkedID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// Get handles GET /api/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	doc, linked, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"document": doc, "linked": linked})
}

// ServeFile handles GET /api/documents/{id}/file
func (h *DocumentHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	path, name, err := h.service.FilePath(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	http.ServeFile(w, r, path)
}

// ReplaceFile handles PUT /api/documents/{id}/file
func (h *DocumentHandler) ReplaceFile(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	content, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if _, err := h.service.Replace(r.Context(), id, content); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, okResponse{OK: true})
}

// Delete handles DELETE /api/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, okResponse{OK: true})
}

type linkRequest struct {
	LinkedType string `json:"linked_type"`
	LinkedID   int    `json:"linked_id"`
}

// AddLink handles POST /api/documents/{id}/link
func (h *DocumentHandler) AddLink(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req linkRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.AddLink(r.Context(), id, req.LinkedType, req.LinkedID); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, okResponse{OK: true})
}

// RemoveLink handles DELETE /api/documents/{id}/link
func (h *DocumentHandler) RemoveLink(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req linkRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.RemoveLink(r.Context(), id, req.LinkedType, req.LinkedID); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, okResponse{OK: true})
}

// ParaDocuments handles GET /api/para/{type}/{id}/documents
func (h *DocumentHandler) ParaDocuments(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	docs, err := h.service.DocumentsFor(r.Context(), r.PathValue("type"), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

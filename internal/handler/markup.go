package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"parakeet/internal/domain/models"
	"parakeet/internal/httputil"
	"parakeet/internal/service"
)

// MarkupHandler handles markup persistence, history and PDF rendering
// HTTP requests.
type MarkupHandler struct {
	markups *service.MarkupService
	pdfs    *service.PDFService
	logger  *slog.Logger
}

// NewMarkupHandler creates a new markup handler.
func NewMarkupHandler(markups *service.MarkupService, pdfs *service.PDFService, logger *slog.Logger) *MarkupHandler {
	return &MarkupHandler{markups: markups, pdfs: pdfs, logger: logger}
}

// Get handles GET /api/documents/{id}/markups
func (h *MarkupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	linkedType, linkedID, err := markupContext(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	markups, err := h.markups.Get(r.Context(), id, linkedType, linkedID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"markups": markups})
}

// Set handles PUT /api/documents/{id}/markups
func (h *MarkupHandler) Set(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	linkedType, linkedID, err := markupContext(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Markups []models.Markup `json:"markups"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Markups == nil {
		req.Markups = []models.Markup{}
	}
	if err := h.markups.Set(r.Context(), id, req.Markups, linkedType, linkedID); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, okResponse{OK: true})
}

// History handles GET /api/documents/{id}/markups/history
func (h *MarkupHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	linkedType, linkedID, err := markupContext(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	versions, err := h.markups.History(r.Context(), id, linkedType, linkedID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"versions": versions})
}

// Restore handles POST /api/documents/{id}/markups/restore?version=N
func (h *MarkupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	version, err := strconv.Atoi(r.URL.Query().Get("version"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "version must be an integer")
		return
	}
	linkedType, linkedID, err := markupContext(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.markups.Restore(r.Context(), id, version, linkedType, linkedID); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, okResponse{OK: true})
}

// Export handles GET /api/documents/{id}/file/with-markups
func (h *MarkupHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	linkedType, linkedID, err := markupContext(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, name, err := h.pdfs.ExportWithMarkups(r.Context(), id, linkedType, linkedID)
	if err != nil {
		handleError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// SaveVersion handles POST /api/documents/{id}/save-version
func (h *MarkupHandler) SaveVersion(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	linkedType, linkedID, err := markupContext(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	filename, err := h.pdfs.SaveAsNewVersion(r.Context(), id, linkedType, linkedID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"ok": true, "filename": filename})
}

package handler

import (
	"log/slog"
	"net/http"

	"parakeet/internal/httputil"
	"parakeet/internal/service"
)

// ParaHandler handles the PARA collection HTTP requests.
type ParaHandler struct {
	service *service.ParaService
	logger  *slog.Logger
}

// NewParaHandler creates a new PARA handler.
func NewParaHandler(svc *service.ParaService, logger *slog.Logger) *ParaHandler {
	return &ParaHandler{service: svc, logger: logger}
}

// ListProjects handles GET /api/projects
func (h *ParaHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListProjects(r.Context(), r.URL.Query().Get("sort"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// CreateProject handles POST /api/projects
func (h *ParaHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req service.CreateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	project, err := h.service.CreateProject(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, project)
}

// ListAreas handles GET /api/areas
func (h *ParaHandler) ListAreas(w http.ResponseWriter, r *http.Request) {
	projectID, err := httputil.QueryInt(r, "project_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	areas, err := h.service.ListAreas(r.Context(), r.URL.Query().Get("sort"), projectID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"areas": areas})
}

// CreateArea handles POST /api/areas
func (h *ParaHandler) CreateArea(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAreaRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	area, err := h.service.CreateArea(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, area)
}

// ListResources handles GET /api/resources
func (h *ParaHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.service.ListResources(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"resources": resources})
}

// CreateResource handles POST /api/resources
func (h *ParaHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req service.CreateResourceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	resource, err := h.service.CreateResource(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resource)
}

// ListArchives handles GET /api/archives
func (h *ParaHandler) ListArchives(w http.ResponseWriter, r *http.Request) {
	archives, err := h.service.ListArchives(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"archives": archives})
}

// MoveToArchive handles POST /api/archives/move
func (h *ParaHandler) MoveToArchive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
		ID   int    `json:"id"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	entry, err := h.service.MoveToArchive(r.Context(), req.Type, req.ID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"ok": true, "archived": entry})
}

// ListTasks handles GET /api/tasks
func (h *ParaHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	parentID, err := httputil.QueryInt(r, "parent_id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	board, err := h.service.ListTasks(r.Context(), service.TaskFilter{
		ParentType: r.URL.Query().Get("parent_type"),
		ParentID:   parentID,
		Priority:   r.URL.Query().Get("priority"),
		Sort:       r.URL.Query().Get("sort"),
	})
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, board)
}

// CreateTask handles POST /api/tasks
func (h *ParaHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTaskRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	task, err := h.service.CreateTask(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, task)
}

// UpdateTask handles PATCH /api/tasks/{id}
func (h *ParaHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req service.UpdateTaskRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	task, err := h.service.UpdateTask(r.Context(), id, req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id}
func (h *ParaHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, okResponse{OK: true})
}

// SuggestWhen handles GET /api/tasks/{id}/suggest
func (h *ParaHandler) SuggestWhen(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathInt(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	suggestion, err := h.service.SuggestWhen(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]any{"task_id": id, "suggestion": suggestion})
}

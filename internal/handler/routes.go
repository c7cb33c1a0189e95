package handler

import (
	"net/http"

	"parakeet/internal/httputil"
)

// RegisterRoutes wires every endpoint onto the mux using Go 1.22 method
// patterns.
func RegisterRoutes(mux *http.ServeMux, para *ParaHandler, docs *DocumentHandler, markups *MarkupHandler) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/projects", para.ListProjects)
	mux.HandleFunc("POST /api/projects", para.CreateProject)
	mux.HandleFunc("GET /api/areas", para.ListAreas)
	mux.HandleFunc("POST /api/areas", para.CreateArea)
	mux.HandleFunc("GET /api/resources", para.ListResources)
	mux.HandleFunc("POST /api/resources", para.CreateResource)
	mux.HandleFunc("GET /api/archives", para.ListArchives)
	mux.HandleFunc("POST /api/archives/move", para.MoveToArchive)
	mux.HandleFunc("GET /api/tasks", para.ListTasks)
	mux.HandleFunc("POST /api/tasks", para.CreateTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", para.UpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", para.DeleteTask)
	mux.HandleFunc("GET /api/tasks/{id}/suggest", para.SuggestWhen)

	mux.HandleFunc("POST /api/documents/upload", docs.Upload)
	mux.HandleFunc("GET /api/documents", docs.List)
	mux.HandleFunc("GET /api/documents/{id}", docs.Get)
	mux.HandleFunc("DELETE /api/documents/{id}", docs.Delete)
	mux.HandleFunc("GET /api/documents/{id}/file", docs.ServeFile)
	mux.HandleFunc("PUT /api/documents/{id}/file", docs.ReplaceFile)
	mux.HandleFunc("POST /api/documents/{id}/link", docs.AddLink)
	mux.HandleFunc("DELETE /api/documents/{id}/link", docs.RemoveLink)
	mux.HandleFunc("GET /api/para/{type}/{id}/documents", docs.ParaDocuments)

	mux.HandleFunc("GET /api/documents/{id}/markups", markups.Get)
	mux.HandleFunc("PUT /api/documents/{id}/markups", markups.Set)
	mux.HandleFunc("GET /api/documents/{id}/markups/history", markups.History)
	mux.HandleFunc("POST /api/documents/{id}/markups/restore", markups.Restore)
	mux.HandleFunc("GET /api/documents/{id}/file/with-markups", markups.Export)
	mux.HandleFunc("POST /api/documents/{id}/save-version", markups.SaveVersion)
}

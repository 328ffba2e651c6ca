package handler

import (
	"log/slog"
	"net/http"
)

// NewRouter registers the API routes and the event stream, wrapped in the
// middleware chain
func NewRouter(h *BoardHandler, events http.Handler, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// User endpoints
	mux.HandleFunc("GET /api/users", h.ListUsers)
	mux.HandleFunc("POST /api/users", h.CreateUser)
	mux.HandleFunc("GET /api/users/{id}", h.GetUser)
	mux.HandleFunc("PUT /api/users/{id}", h.UpdateUser)
	mux.HandleFunc("DELETE /api/users/{id}", h.DeleteUser)

	// Tag endpoints
	mux.HandleFunc("GET /api/tags", h.ListTags)
	mux.HandleFunc("POST /api/tags", h.CreateTag)
	mux.HandleFunc("GET /api/tags/{id}", h.GetTag)
	mux.HandleFunc("PUT /api/tags/{id}", h.UpdateTag)
	mux.HandleFunc("DELETE /api/tags/{id}", h.DeleteTag)

	// Work item endpoints
	mux.HandleFunc("GET /api/workitems", h.ListWorkItems)
	mux.HandleFunc("POST /api/workitems", h.CreateWorkItem)
	mux.HandleFunc("GET /api/workitems/removed", h.ListRemovedWorkItems)
	mux.HandleFunc("GET /api/workitems/{id}", h.GetWorkItem)
	mux.HandleFunc("PUT /api/workitems/{id}", h.UpdateWorkItem)
	mux.HandleFunc("DELETE /api/workitems/{id}", h.DeleteWorkItem)

	// Import/export endpoints
	mux.HandleFunc("POST /api/import/{format}", h.ImportBoard)
	mux.HandleFunc("GET /api/export/{format}", h.ExportBoard)

	// SSE events endpoint
	if events != nil {
		mux.Handle("GET /events", events)
	}

	return Chain(mux,
		Recover(log),
		RequestID,
		Logger(log),
		CORS,
	)
}

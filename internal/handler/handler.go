package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"kanban/internal/codec"
	"kanban/internal/domain"
	"kanban/internal/service"
)

// maxBodyBytes bounds request bodies, board imports included
const maxBodyBytes = 8 << 20

// BoardHandler handles board API requests
type BoardHandler struct {
	svc *service.BoardService
	log *slog.Logger
}

// NewBoardHandler creates a new board handler. A nil logger uses slog.Default.
func NewBoardHandler(svc *service.BoardService, log *slog.Logger) *BoardHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BoardHandler{svc: svc, log: log.With("component", "http")}
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ResultResponse reports the outcome of a mutating request
type ResultResponse struct {
	Result domain.Result `json:"result"`
	ID     *int          `json:"id,omitempty"`
}

// ============================================================================
// Users
// ============================================================================

// ListUsers returns all users
func (h *BoardHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list users", err)
		return
	}
	writeJSON(w, users, http.StatusOK)
}

// GetUser returns one user
func (h *BoardHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to get user", err)
		return
	}
	writeJSON(w, user, http.StatusOK)
}

// CreateUser creates a user
func (h *BoardHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in domain.UserCreate
	if !decodeBody(w, r, &in) {
		return
	}

	result, id, err := h.svc.CreateUser(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Failed to create user", err)
		return
	}
	writeResult(w, result, id)
}

// UpdateUser replaces a user's name and email
func (h *BoardHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.UserUpdate
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = id

	result, err := h.svc.UpdateUser(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Failed to update user", err)
		return
	}
	writeResult(w, result, id)
}

// DeleteUser removes a user; ?force=true unassigns their work items first
func (h *BoardHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	force, ok := queryForce(w, r)
	if !ok {
		return
	}

	result, err := h.svc.DeleteUser(r.Context(), id, force)
	if err != nil {
		h.fail(w, r, "Failed to delete user", err)
		return
	}
	writeResult(w, result, id)
}

// ============================================================================
// Tags
// ============================================================================

// ListTags returns all tags
func (h *BoardHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list tags", err)
		return
	}
	writeJSON(w, tags, http.StatusOK)
}

// GetTag returns one tag
func (h *BoardHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	tag, err := h.svc.GetTag(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to get tag", err)
		return
	}
	writeJSON(w, tag, http.StatusOK)
}

// CreateTag creates a tag
func (h *BoardHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var in domain.TagCreate
	if !decodeBody(w, r, &in) {
		return
	}

	result, id, err := h.svc.CreateTag(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Failed to create tag", err)
		return
	}
	writeResult(w, result, id)
}

// UpdateTag renames a tag
func (h *BoardHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.TagUpdate
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = id

	result, err := h.svc.UpdateTag(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Failed to update tag", err)
		return
	}
	writeResult(w, result, id)
}

// DeleteTag removes a tag; ?force=true detaches it from work items first
func (h *BoardHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	force, ok := queryForce(w, r)
	if !ok {
		return
	}

	result, err := h.svc.DeleteTag(r.Context(), id, force)
	if err != nil {
		h.fail(w, r, "Failed to delete tag", err)
		return
	}
	writeResult(w, result, id)
}

// ============================================================================
// Work Items
// ============================================================================

// ListWorkItems returns work item summaries, filtered by ?state, ?tag or ?user
func (h *BoardHandler) ListWorkItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter service.WorkItemFilter

	if s := q.Get("state"); s != "" {
		state, err := domain.ParseState(s)
		if err != nil {
			writeError(w, "Invalid state filter", err.Error(), http.StatusBadRequest)
			return
		}
		filter.State = state
	}
	filter.Tag = q.Get("tag")
	if s := q.Get("user"); s != "" {
		userID, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, "Invalid user filter", err.Error(), http.StatusBadRequest)
			return
		}
		filter.UserID = &userID
	}

	h.listWorkItems(w, r, filter)
}

// ListRemovedWorkItems returns the work items in state Removed
func (h *BoardHandler) ListRemovedWorkItems(w http.ResponseWriter, r *http.Request) {
	h.listWorkItems(w, r, service.WorkItemFilter{Removed: true})
}

func (h *BoardHandler) listWorkItems(w http.ResponseWriter, r *http.Request, filter service.WorkItemFilter) {
	items, err := h.svc.ListWorkItems(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "Failed to list work items", err)
		return
	}
	writeJSON(w, items, http.StatusOK)
}

// GetWorkItem returns the full view of a work item
func (h *BoardHandler) GetWorkItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := h.svc.GetWorkItem(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to get work item", err)
		return
	}
	writeJSON(w, item, http.StatusOK)
}

// CreateWorkItem creates a work item
func (h *BoardHandler) CreateWorkItem(w http.ResponseWriter, r *http.Request) {
	var in domain.WorkItemCreate
	if !decodeBody(w, r, &in) {
		return
	}

	result, id, err := h.svc.CreateWorkItem(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Failed to create work item", err)
		return
	}
	writeResult(w, result, id)
}

// UpdateWorkItem applies changes to a work item
func (h *BoardHandler) UpdateWorkItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.WorkItemUpdate
	if !decodeBody(w, r, &in) {
		return
	}
	in.ID = id

	result, err := h.svc.UpdateWorkItem(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Failed to update work item", err)
		return
	}
	writeResult(w, result, id)
}

// DeleteWorkItem deletes or retires a work item depending on its state
func (h *BoardHandler) DeleteWorkItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.svc.DeleteWorkItem(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to delete work item", err)
		return
	}
	writeResult(w, result, id)
}

// ============================================================================
// Import / Export
// ============================================================================

// ImportBoard loads a board snapshot in the format named by the path
func (h *BoardHandler) ImportBoard(w http.ResponseWriter, r *http.Request) {
	c, err := codec.ForFormat(r.PathValue("format"))
	if err != nil {
		writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	board, err := c.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, "Invalid board", err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.svc.ImportBoard(r.Context(), board)
	if err != nil {
		h.fail(w, r, "Failed to import board", err)
		return
	}
	writeJSON(w, report, http.StatusOK)
}

// ExportBoard writes a board snapshot in the format named by the path
func (h *BoardHandler) ExportBoard(w http.ResponseWriter, r *http.Request) {
	c, err := codec.ForFormat(r.PathValue("format"))
	if err != nil {
		writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	board, err := h.svc.ExportBoard(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to export board", err)
		return
	}

	// Encode first so a failure can still produce an error response
	var buf bytes.Buffer
	if err := c.Export(board, &buf); err != nil {
		h.fail(w, r, "Failed to export board", err)
		return
	}

	contentType := "application/json"
	if c.Format() == "yaml" {
		contentType = "application/x-yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=board.%s", c.Format()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.WarnContext(r.Context(), "failed to write export", "error", err)
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

// statusFor maps a repository result onto an HTTP status code
func statusFor(result domain.Result) int {
	switch result {
	case domain.ResultCreated:
		return http.StatusCreated
	case domain.ResultUpdated:
		return http.StatusOK
	case domain.ResultDeleted:
		return http.StatusNoContent
	case domain.ResultNotFound:
		return http.StatusNotFound
	case domain.ResultBadRequest:
		return http.StatusBadRequest
	case domain.ResultConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeResult writes a ResultResponse, or an empty 204 for deletions
func writeResult(w http.ResponseWriter, result domain.Result, id int) {
	status := statusFor(result)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	resp := ResultResponse{Result: result}
	if id != domain.NoID {
		resp.ID = &id
	}
	writeJSON(w, resp, status)
}

// fail writes 404 for domain.ErrNotFound and 500 for anything else
func (h *BoardHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, "Not found", err.Error(), http.StatusNotFound)
		return
	}
	h.log.ErrorContext(r.Context(), msg, "error", err, "request_id", GetRequestID(r.Context()))
	writeError(w, msg, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode JSON", "error", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}

// decodeBody reads a JSON body into v, answering 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses the {id} path segment, answering 400 on failure
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, "Invalid id", err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryForce parses the optional ?force flag
func queryForce(w http.ResponseWriter, r *http.Request) (bool, bool) {
	s := r.URL.Query().Get("force")
	if s == "" {
		return false, true
	}
	force, err := strconv.ParseBool(s)
	if err != nil {
		writeError(w, "Invalid force flag", err.Error(), http.StatusBadRequest)
		return false, false
	}
	return force, true
}

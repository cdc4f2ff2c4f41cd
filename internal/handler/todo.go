package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"taskmate/internal/httputil"
	"taskmate/internal/model"
	"taskmate/internal/service"
	"taskmate/internal/transport/http/middleware"
)

// TodoHandler handles todo CRUD, search and completion.
type TodoHandler struct {
	todos *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// Create handles POST /todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	var req model.TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	todo, err := h.todos.Create(r.Context(), userID, &req)
	if err != nil {
		writeTodoError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, todo)
}

// List handles GET /todos with optional status, priority, category and
// dueDate query filters.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	raw := service.RawTodoFilter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		DueDate:  r.URL.Query().Get("dueDate"),
	}

	if cidStr := r.URL.Query().Get("category"); cidStr != "" {
		cid, err := strconv.ParseInt(cidStr, 10, 64)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid category ID")
			return
		}
		raw.CategoryID = &cid
	}

	todos, err := h.todos.List(r.Context(), userID, raw)
	if err != nil {
		writeTodoError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, todos)
}

// Search handles GET /todos/search?title=...
func (h *TodoHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	todos, err := h.todos.Search(r.Context(), userID, r.URL.Query().Get("title"))
	if err != nil {
		writeTodoError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, todos)
}

// Get handles GET /todos/{id}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid todo ID")
		return
	}

	todo, err := h.todos.Get(r.Context(), userID, id)
	if err != nil {
		writeTodoError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, todo)
}

// Update handles PUT /todos/{id}. The body replaces every mutable field.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid todo ID")
		return
	}

	var req model.TodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	todo, err := h.todos.Update(r.Context(), userID, id, &req)
	if err != nil {
		writeTodoError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, todo)
}

// Delete handles DELETE /todos/{id}.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid todo ID")
		return
	}

	if err := h.todos.Delete(r.Context(), userID, id); err != nil {
		writeTodoError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted"})
}

// Complete handles POST /todos/{id}/complete.
func (h *TodoHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid todo ID")
		return
	}

	todo, err := h.todos.Complete(r.Context(), userID, id)
	if err != nil {
		writeTodoError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, todo)
}

// parseIDParam extracts a positive int64 path parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// writeTodoError maps service errors to the wire taxonomy.
func writeTodoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrTodoNotFound):
		httputil.WriteNotFound(w, "Todo not found")
	case errors.Is(err, model.ErrCategoryNotFound):
		httputil.WriteNotFound(w, "Category not found")
	case errors.Is(err, model.ErrTitleRequired):
		httputil.WriteBadRequest(w, "Title is required")
	case errors.Is(err, model.ErrInvalidStatus):
		httputil.WriteBadRequest(w, "Invalid status")
	case errors.Is(err, model.ErrInvalidPriority):
		httputil.WriteBadRequest(w, "Invalid priority")
	case errors.Is(err, model.ErrInvalidDueDate):
		httputil.WriteBadRequest(w, "Invalid due date")
	default:
		log.Printf("[Todo] Handler error: %v", err)
		httputil.WriteInternalError(w, "Internal server error")
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"taskmate/internal/httputil"
	"taskmate/internal/model"
	"taskmate/internal/service"
	"taskmate/internal/transport/http/middleware"
)

// CategoryHandler handles category CRUD.
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	var req model.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	category, err := h.categories.Create(r.Context(), userID, &req)
	if err != nil {
		writeCategoryError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, category)
}

// List handles GET /categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	categories, err := h.categories.List(r.Context(), userID)
	if err != nil {
		writeCategoryError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, categories)
}

// Get handles GET /categories/{id}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid category ID")
		return
	}

	category, err := h.categories.Get(r.Context(), userID, id)
	if err != nil {
		writeCategoryError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, category)
}

// Update handles PUT /categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid category ID")
		return
	}

	var req model.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	category, err := h.categories.Update(r.Context(), userID, id, &req)
	if err != nil {
		writeCategoryError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Token required")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid category ID")
		return
	}

	if err := h.categories.Delete(r.Context(), userID, id); err != nil {
		writeCategoryError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

// writeCategoryError maps service errors to the wire taxonomy.
func writeCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrCategoryNotFound):
		httputil.WriteNotFound(w, "Category not found")
	case errors.Is(err, model.ErrCategoryNameRequired):
		httputil.WriteBadRequest(w, "Category name is required")
	default:
		log.Printf("[Category] Handler error: %v", err)
		httputil.WriteInternalError(w, "Internal server error")
	}
}

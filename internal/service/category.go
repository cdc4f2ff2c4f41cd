package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"taskmate/internal/model"
	"taskmate/internal/repository"
)

// CategoryService handles category CRUD, always scoped to the owning user.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// Create adds a category for the user.
func (s *CategoryService) Create(ctx context.Context, userID int64, req *model.CategoryRequest) (*model.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.ErrCategoryNameRequired
	}

	category := &model.Category{
		UserID: userID,
		Name:   name,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	log.Printf("[Category] Created: id=%d user=%d", category.ID, userID)
	return category, nil
}

// List returns all of the user's categories.
func (s *CategoryService) List(ctx context.Context, userID int64) ([]model.Category, error) {
	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Get returns a single category owned by the user.
func (s *CategoryService) Get(ctx context.Context, userID, id int64) (*model.Category, error) {
	return s.categories.GetByID(ctx, userID, id)
}

// Update renames a category owned by the user.
func (s *CategoryService) Update(ctx context.Context, userID, id int64, req *model.CategoryRequest) (*model.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.ErrCategoryNameRequired
	}

	category, err := s.categories.Update(ctx, userID, id, name)
	if err != nil {
		return nil, err
	}

	log.Printf("[Category] Updated: id=%d user=%d", id, userID)
	return category, nil
}

// Delete removes a category owned by the user. Todos referencing it keep
// existing; the database nulls their category on delete.
func (s *CategoryService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.categories.Delete(ctx, userID, id); err != nil {
		return err
	}

	log.Printf("[Category] Deleted: id=%d user=%d", id, userID)
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"taskmate/internal/model"
)

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts a new category owned by category.UserID.
func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
		INSERT INTO categories (user_id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query, c.UserID, c.Name)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	return nil
}

// GetByID retrieves a category scoped to its owner. A row owned by someone
// else is indistinguishable from an absent one.
func (r *categoryRepository) GetByID(ctx context.Context, userID, id int64) (*model.Category, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories
		WHERE id = $1 AND user_id = $2
	`

	var c model.Category
	err := r.db.GetContext(ctx, &c, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &c, nil
}

// ListByUser returns all categories owned by the user.
func (r *categoryRepository) ListByUser(ctx context.Context, userID int64) ([]model.Category, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var categories []model.Category
	err := r.db.SelectContext(ctx, &categories, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// Update renames a category; ownership is part of the WHERE clause so the
// statement is atomic per row.
func (r *categoryRepository) Update(ctx context.Context, userID, id int64, name string) (*model.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, name, created_at, updated_at
	`

	var c model.Category
	err := r.db.GetContext(ctx, &c, query, name, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &c, nil
}

// Delete removes a category. Todos referencing it get category_id NULL via
// the foreign key's ON DELETE SET NULL.
func (r *categoryRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCategoryNotFound
	}

	return nil
}

// ExistsForUser checks whether the category exists and is owned by the user.
func (r *categoryRepository) ExistsForUser(ctx context.Context, userID, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND user_id = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check category existence: %w", err)
	}

	return exists, nil
}

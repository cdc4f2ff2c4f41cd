package model

import (
	"errors"
	"time"
)

// Category groups a user's todos. Owned exclusively by one user.
type Category struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CategoryRequest is the body for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name"`
}

var (
	// ErrCategoryNotFound covers both true absence and not-owned rows,
	// so existence of other users' categories is never revealed
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryNameRequired is returned when the name is empty
	ErrCategoryNameRequired = errors.New("category name is required")
)

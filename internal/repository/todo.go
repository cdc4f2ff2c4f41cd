package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"taskmate/internal/model"
)

const todoColumns = `id, user_id, title, description, status, priority, category_id, due_date, created_at, updated_at`

type todoRepository struct {
	db *sqlx.DB
}

func NewTodoRepository(db *sqlx.DB) TodoRepository {
	return &todoRepository{db: db}
}

// Create inserts a new todo owned by todo.UserID.
func (r *todoRepository) Create(ctx context.Context, t *model.Todo) error {
	query := `
		INSERT INTO todos (user_id, title, description, status, priority, category_id, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		t.UserID,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.CategoryID,
		t.DueDate,
	)

	if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}

	return nil
}

// GetByID retrieves a todo scoped to its owner. A row owned by another user
// is indistinguishable from an absent one.
func (r *todoRepository) GetByID(ctx context.Context, userID, id int64) (*model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`

	var t model.Todo
	err := r.db.GetContext(ctx, &t, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return &t, nil
}

// List returns the user's todos matching the filter conjunction. Every
// clause is bound through a placeholder; nothing is interpolated.
func (r *todoRepository) List(ctx context.Context, userID int64, filter model.TodoFilter) ([]model.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.DueFrom != nil && filter.DueTo != nil {
		args = append(args, *filter.DueFrom)
		query += fmt.Sprintf(" AND due_date >= $%d", len(args))
		args = append(args, *filter.DueTo)
		query += fmt.Sprintf(" AND due_date < $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	var todos []model.Todo
	err := r.db.SelectContext(ctx, &todos, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nil
}

// SearchByTitle performs a case-insensitive substring match scoped to owner.
func (r *todoRepository) SearchByTitle(ctx context.Context, userID int64, title string) ([]model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1 AND title ILIKE '%' || $2 || '%'
		ORDER BY created_at DESC
	`

	var todos []model.Todo
	err := r.db.SelectContext(ctx, &todos, query, userID, title)
	if err != nil {
		return nil, fmt.Errorf("failed to search todos: %w", err)
	}

	return todos, nil
}

// Update replaces all mutable fields. The WHERE clause includes user_id so
// the ownership check and the write are a single atomic statement.
func (r *todoRepository) Update(ctx context.Context, t *model.Todo) error {
	query := `
		UPDATE todos
		SET title = $1, description = $2, status = $3, priority = $4, category_id = $5, due_date = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.CategoryID,
		t.DueDate,
		t.ID,
		t.UserID,
	)

	err := row.Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ErrTodoNotFound
		}
		return fmt.Errorf("failed to update todo: %w", err)
	}

	return nil
}

// Delete removes a todo scoped to its owner.
func (r *todoRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrTodoNotFound
	}

	return nil
}

// SetStatus transitions a todo's status, scoped to its owner.
func (r *todoRepository) SetStatus(ctx context.Context, userID, id int64, status string) error {
	query := `UPDATE todos SET status = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`

	result, err := r.db.ExecContext(ctx, query, status, id, userID)
	if err != nil {
		return fmt.Errorf("failed to set todo status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrTodoNotFound
	}

	return nil
}

// ListPendingDueAfter returns pending todos across all users with a due date
// after t. Used once at startup to rebuild the reminder registry.
func (r *todoRepository) ListPendingDueAfter(ctx context.Context, t time.Time) ([]model.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE status = $1 AND due_date IS NOT NULL AND due_date > $2
		ORDER BY due_date
	`

	var todos []model.Todo
	err := r.db.SelectContext(ctx, &todos, query, model.StatusPending, t)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending todos: %w", err)
	}

	return todos, nil
}

package model

import (
	"errors"
	"time"
)

// Todo statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Todo priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DueDateLayout is the wall-clock format used on the wire for due dates.
// Values are interpreted in the configured reference timezone.
const DueDateLayout = "2006-01-02 15:04:05"

// DueDateDayLayout is the calendar-day format accepted by the list filter.
const DueDateDayLayout = "2006-01-02"

// Todo is a task owned exclusively by its creator.
type Todo struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"-"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	Priority    string     `db:"priority" json:"priority"`
	CategoryID  *int64     `db:"category_id" json:"category_id"`
	DueDate     *time.Time `db:"due_date" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// TodoRequest is the body for creating or replacing a todo. DueDate uses
// DueDateLayout in the reference timezone; empty clears the due date.
type TodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	CategoryID  *int64  `json:"category_id"`
	DueDate     string  `json:"due_date"`
}

// TodoResponse is the client-facing shape with the due date rendered as a
// wall-clock string in the reference timezone.
type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CategoryID  *int64    `json:"category_id"`
	DueDate     *string   `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoFilter restricts listTodos. Zero values mean "not filtered".
// DueFrom/DueTo bound the reference-timezone calendar day, half-open.
type TodoFilter struct {
	Status     string
	Priority   string
	CategoryID *int64
	DueFrom    *time.Time
	DueTo      *time.Time
}

// IsValidStatus reports whether s is a known todo status.
func IsValidStatus(s string) bool {
	return s == StatusPending || s == StatusCompleted
}

// IsValidPriority reports whether p is a known todo priority.
func IsValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

var (
	// ErrTodoNotFound covers both true absence and not-owned rows
	ErrTodoNotFound = errors.New("todo not found")

	// ErrTitleRequired is returned when the title is empty
	ErrTitleRequired = errors.New("title is required")

	// ErrInvalidStatus is returned for an unknown status value
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPriority is returned for an unknown priority value
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidDueDate is returned when a due date fails to parse
	ErrInvalidDueDate = errors.New("invalid due date")
)

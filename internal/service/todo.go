package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"taskmate/internal/model"
	"taskmate/internal/repository"
)

// ReminderScheduler is the in-process timer registry for due-date reminders.
type ReminderScheduler interface {
	Schedule(todoID, userID int64, title string, fireAt time.Time)
	Cancel(todoID int64)
}

// EventPublisher pushes todo lifecycle events onto the notification stream.
// Matches the convenience surface of queue.RedisPublisher.
type EventPublisher interface {
	PublishReminderDue(ctx context.Context, todoID, userID int64, title string) (string, error)
	PublishTodoCreated(ctx context.Context, todoID, userID int64, title string) (string, error)
	PublishTodoCompleted(ctx context.Context, todoID, userID int64, title string) (string, error)
}

// RawTodoFilter holds unparsed query parameters for listing todos.
type RawTodoFilter struct {
	Status     string
	Priority   string
	CategoryID *int64
	DueDate    string // calendar day, "2006-01-02"
}

// TodoService owns todo CRUD, due-date interpretation and reminder side
// effects. Every repository call is scoped by the owning user, so a todo
// that exists but belongs to someone else is indistinguishable from one
// that doesn't exist.
type TodoService struct {
	todos      repository.TodoRepository
	categories repository.CategoryRepository
	scheduler  ReminderScheduler
	publisher  EventPublisher // Can be nil if Redis not configured
	loc        *time.Location
}

// NewTodoService creates a new TodoService. loc is the reference timezone
// in which all wall-clock due dates are interpreted and rendered.
func NewTodoService(
	todos repository.TodoRepository,
	categories repository.CategoryRepository,
	scheduler ReminderScheduler,
	publisher EventPublisher,
	loc *time.Location,
) *TodoService {
	return &TodoService{
		todos:      todos,
		categories: categories,
		scheduler:  scheduler,
		publisher:  publisher,
		loc:        loc,
	}
}

// parseDueDate interprets a wall-clock due date string in the reference
// timezone. Empty means no due date.
func (s *TodoService) parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(model.DueDateLayout, raw, s.loc)
	if err != nil {
		return nil, model.ErrInvalidDueDate
	}
	return &t, nil
}

// validateRequest normalizes and checks a create/update body in place.
func (s *TodoService) validateRequest(ctx context.Context, userID int64, req *model.TodoRequest) (*time.Time, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, model.ErrTitleRequired
	}

	if req.Status == "" {
		req.Status = model.StatusPending
	}
	if !model.IsValidStatus(req.Status) {
		return nil, model.ErrInvalidStatus
	}

	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if !model.IsValidPriority(req.Priority) {
		return nil, model.ErrInvalidPriority
	}

	if req.CategoryID != nil {
		owned, err := s.categories.ExistsForUser(ctx, userID, *req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("check category: %w", err)
		}
		if !owned {
			return nil, model.ErrCategoryNotFound
		}
	}

	return s.parseDueDate(req.DueDate)
}

// Create validates the request, persists the todo, schedules its reminder
// if due in the future, and emits a creation event.
func (s *TodoService) Create(ctx context.Context, userID int64, req *model.TodoRequest) (*model.TodoResponse, error) {
	dueDate, err := s.validateRequest(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	todo := &model.Todo{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
		DueDate:     dueDate,
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.syncReminder(todo)

	if s.publisher != nil {
		if _, err := s.publisher.PublishTodoCreated(ctx, todo.ID, userID, todo.Title); err != nil {
			log.Printf("[Todo] Publish created event FAILED: todo=%d err=%v", todo.ID, err)
		}
	}

	log.Printf("[Todo] Created: id=%d user=%d", todo.ID, userID)
	return s.toResponse(todo), nil
}

// Get returns a single todo owned by the user.
func (s *TodoService) Get(ctx context.Context, userID, id int64) (*model.TodoResponse, error) {
	todo, err := s.todos.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(todo), nil
}

// List returns the user's todos matching the filter. Unknown status or
// priority values and malformed due dates are rejected rather than treated
// as empty matches.
func (s *TodoService) List(ctx context.Context, userID int64, raw RawTodoFilter) ([]model.TodoResponse, error) {
	filter := model.TodoFilter{CategoryID: raw.CategoryID}

	if raw.Status != "" {
		if !model.IsValidStatus(raw.Status) {
			return nil, model.ErrInvalidStatus
		}
		filter.Status = raw.Status
	}

	if raw.Priority != "" {
		if !model.IsValidPriority(raw.Priority) {
			return nil, model.ErrInvalidPriority
		}
		filter.Priority = raw.Priority
	}

	if raw.DueDate != "" {
		day, err := time.ParseInLocation(model.DueDateDayLayout, raw.DueDate, s.loc)
		if err != nil {
			return nil, model.ErrInvalidDueDate
		}
		// Half-open interval covering the reference-timezone calendar day
		from := day
		to := day.AddDate(0, 0, 1)
		filter.DueFrom = &from
		filter.DueTo = &to
	}

	todos, err := s.todos.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return s.toResponses(todos), nil
}

// Search returns the user's todos whose title contains the query,
// case-insensitively. An empty query matches everything.
func (s *TodoService) Search(ctx context.Context, userID int64, query string) ([]model.TodoResponse, error) {
	todos, err := s.todos.SearchByTitle(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("search todos: %w", err)
	}
	return s.toResponses(todos), nil
}

// Update replaces every mutable field of the todo and reconciles its
// reminder with the new due date and status.
func (s *TodoService) Update(ctx context.Context, userID, id int64, req *model.TodoRequest) (*model.TodoResponse, error) {
	dueDate, err := s.validateRequest(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	todo := &model.Todo{
		ID:          id,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
		DueDate:     dueDate,
	}

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, err
	}

	s.syncReminder(todo)

	log.Printf("[Todo] Updated: id=%d user=%d", id, userID)
	return s.toResponse(todo), nil
}

// Delete removes the todo and cancels any scheduled reminder.
func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.todos.Delete(ctx, userID, id); err != nil {
		return err
	}

	s.scheduler.Cancel(id)

	log.Printf("[Todo] Deleted: id=%d user=%d", id, userID)
	return nil
}

// Complete marks the todo as completed, cancels its reminder and emits a
// completion event. Completing an already completed todo is a no-op that
// still succeeds.
func (s *TodoService) Complete(ctx context.Context, userID, id int64) (*model.TodoResponse, error) {
	if err := s.todos.SetStatus(ctx, userID, id, model.StatusCompleted); err != nil {
		return nil, err
	}

	s.scheduler.Cancel(id)

	todo, err := s.todos.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		if _, err := s.publisher.PublishTodoCompleted(ctx, todo.ID, userID, todo.Title); err != nil {
			log.Printf("[Todo] Publish completed event FAILED: todo=%d err=%v", todo.ID, err)
		}
	}

	log.Printf("[Todo] Completed: id=%d user=%d", id, userID)
	return s.toResponse(todo), nil
}

// RehydrateReminders rebuilds the in-memory reminder registry from the
// database. Called once at startup so reminders survive process restarts.
func (s *TodoService) RehydrateReminders(ctx context.Context) error {
	now := time.Now()
	todos, err := s.todos.ListPendingDueAfter(ctx, now)
	if err != nil {
		return fmt.Errorf("list pending todos: %w", err)
	}

	count := 0
	for i := range todos {
		t := &todos[i]
		if t.DueDate == nil {
			continue
		}
		s.scheduler.Schedule(t.ID, t.UserID, t.Title, *t.DueDate)
		count++
	}

	log.Printf("[Todo] Rehydrated %d reminders", count)
	return nil
}

// syncReminder reconciles the scheduler entry with the todo's current
// state: pending with a future due date gets a timer, everything else
// cancels any existing one.
func (s *TodoService) syncReminder(todo *model.Todo) {
	if todo.Status == model.StatusPending && todo.DueDate != nil && todo.DueDate.After(time.Now()) {
		s.scheduler.Schedule(todo.ID, todo.UserID, todo.Title, *todo.DueDate)
		return
	}
	s.scheduler.Cancel(todo.ID)
}

// toResponse renders a todo with its due date formatted as a wall-clock
// string in the reference timezone.
func (s *TodoService) toResponse(todo *model.Todo) *model.TodoResponse {
	resp := &model.TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      todo.Status,
		Priority:    todo.Priority,
		CategoryID:  todo.CategoryID,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
	if todo.DueDate != nil {
		formatted := todo.DueDate.In(s.loc).Format(model.DueDateLayout)
		resp.DueDate = &formatted
	}
	return resp
}

func (s *TodoService) toResponses(todos []model.Todo) []model.TodoResponse {
	responses := make([]model.TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, *s.toResponse(&todos[i]))
	}
	return responses
}

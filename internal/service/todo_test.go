package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taskmate/internal/model"
)

// =============================================================================
// MOCKS
// =============================================================================

type mockTodoRepository struct {
	createFn              func(ctx context.Context, todo *model.Todo) error
	getByIDFn             func(ctx context.Context, userID, id int64) (*model.Todo, error)
	listFn                func(ctx context.Context, userID int64, filter model.TodoFilter) ([]model.Todo, error)
	searchByTitleFn       func(ctx context.Context, userID int64, title string) ([]model.Todo, error)
	updateFn              func(ctx context.Context, todo *model.Todo) error
	deleteFn              func(ctx context.Context, userID, id int64) error
	setStatusFn           func(ctx context.Context, userID, id int64, status string) error
	listPendingDueAfterFn func(ctx context.Context, t time.Time) ([]model.Todo, error)

	lastFilter model.TodoFilter
}

func (m *mockTodoRepository) Create(ctx context.Context, todo *model.Todo) error {
	if m.createFn != nil {
		return m.createFn(ctx, todo)
	}
	todo.ID = 1
	return nil
}

func (m *mockTodoRepository) GetByID(ctx context.Context, userID, id int64) (*model.Todo, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, userID, id)
	}
	return nil, model.ErrTodoNotFound
}

func (m *mockTodoRepository) List(ctx context.Context, userID int64, filter model.TodoFilter) ([]model.Todo, error) {
	m.lastFilter = filter
	if m.listFn != nil {
		return m.listFn(ctx, userID, filter)
	}
	return nil, nil
}

func (m *mockTodoRepository) SearchByTitle(ctx context.Context, userID int64, title string) ([]model.Todo, error) {
	if m.searchByTitleFn != nil {
		return m.searchByTitleFn(ctx, userID, title)
	}
	return nil, nil
}

func (m *mockTodoRepository) Update(ctx context.Context, todo *model.Todo) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, todo)
	}
	return nil
}

func (m *mockTodoRepository) Delete(ctx context.Context, userID, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

func (m *mockTodoRepository) SetStatus(ctx context.Context, userID, id int64, status string) error {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, userID, id, status)
	}
	return nil
}

func (m *mockTodoRepository) ListPendingDueAfter(ctx context.Context, t time.Time) ([]model.Todo, error) {
	if m.listPendingDueAfterFn != nil {
		return m.listPendingDueAfterFn(ctx, t)
	}
	return nil, nil
}

type mockCategoryRepository struct {
	createFn       func(ctx context.Context, category *model.Category) error
	getByIDFn      func(ctx context.Context, userID, id int64) (*model.Category, error)
	listByUserFn   func(ctx context.Context, userID int64) ([]model.Category, error)
	updateFn       func(ctx context.Context, userID, id int64, name string) (*model.Category, error)
	deleteFn       func(ctx context.Context, userID, id int64) error
	existsForUserFn func(ctx context.Context, userID, id int64) (bool, error)
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if m.createFn != nil {
		return m.createFn(ctx, category)
	}
	category.ID = 1
	return nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, userID, id int64) (*model.Category, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, userID, id)
	}
	return nil, model.ErrCategoryNotFound
}

func (m *mockCategoryRepository) ListByUser(ctx context.Context, userID int64) ([]model.Category, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, userID, id int64, name string) (*model.Category, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, name)
	}
	return nil, model.ErrCategoryNotFound
}

func (m *mockCategoryRepository) Delete(ctx context.Context, userID, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return nil
}

func (m *mockCategoryRepository) ExistsForUser(ctx context.Context, userID, id int64) (bool, error) {
	if m.existsForUserFn != nil {
		return m.existsForUserFn(ctx, userID, id)
	}
	return false, nil
}

type mockScheduler struct {
	mu        sync.Mutex
	scheduled map[int64]time.Time
	cancelled []int64
}

func newMockScheduler() *mockScheduler {
	return &mockScheduler{scheduled: make(map[int64]time.Time)}
}

func (m *mockScheduler) Schedule(todoID, userID int64, title string, fireAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled[todoID] = fireAt
}

func (m *mockScheduler) Cancel(todoID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scheduled, todoID)
	m.cancelled = append(m.cancelled, todoID)
}

type mockPublisher struct {
	created   []int64
	completed []int64
	reminders []int64
}

func (m *mockPublisher) PublishReminderDue(ctx context.Context, todoID, userID int64, title string) (string, error) {
	m.reminders = append(m.reminders, todoID)
	return "1-0", nil
}

func (m *mockPublisher) PublishTodoCreated(ctx context.Context, todoID, userID int64, title string) (string, error) {
	m.created = append(m.created, todoID)
	return "1-0", nil
}

func (m *mockPublisher) PublishTodoCompleted(ctx context.Context, todoID, userID int64, title string) (string, error) {
	m.completed = append(m.completed, todoID)
	return "1-0", nil
}

// =============================================================================
// TEST SETUP
// =============================================================================

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func newTestTodoService(t *testing.T, todos *mockTodoRepository, categories *mockCategoryRepository) (*TodoService, *mockScheduler, *mockPublisher) {
	t.Helper()
	sched := newMockScheduler()
	pub := &mockPublisher{}
	svc := NewTodoService(todos, categories, sched, pub, testLocation(t))
	return svc, sched, pub
}

// =============================================================================
// CREATE TESTS
// =============================================================================

func TestTodoService_Create_TitleRequired(t *testing.T) {
	svc, _, _ := newTestTodoService(t, &mockTodoRepository{}, &mockCategoryRepository{})

	_, err := svc.Create(context.Background(), 1, &model.TodoRequest{Title: "   "})
	if !errors.Is(err, model.ErrTitleRequired) {
		t.Errorf("err = %v, want ErrTitleRequired", err)
	}
}

func TestTodoService_Create_Defaults(t *testing.T) {
	var created *model.Todo
	todos := &mockTodoRepository{
		createFn: func(ctx context.Context, todo *model.Todo) error {
			todo.ID = 5
			created = todo
			return nil
		},
	}
	svc, _, pub := newTestTodoService(t, todos, &mockCategoryRepository{})

	resp, err := svc.Create(context.Background(), 1, &model.TodoRequest{Title: "buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Status != model.StatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
	if created.Priority != model.PriorityMedium {
		t.Errorf("priority = %q, want medium", created.Priority)
	}
	if resp.DueDate != nil {
		t.Errorf("due_date = %v, want nil", *resp.DueDate)
	}
	if len(pub.created) != 1 || pub.created[0] != 5 {
		t.Errorf("created events = %v, want [5]", pub.created)
	}
}

func TestTodoService_Create_InvalidStatusAndPriority(t *testing.T) {
	svc, _, _ := newTestTodoService(t, &mockTodoRepository{}, &mockCategoryRepository{})

	_, err := svc.Create(context.Background(), 1, &model.TodoRequest{Title: "x", Status: "archived"})
	if !errors.Is(err, model.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}

	_, err = svc.Create(context.Background(), 1, &model.TodoRequest{Title: "x", Priority: "urgent"})
	if !errors.Is(err, model.ErrInvalidPriority) {
		t.Errorf("err = %v, want ErrInvalidPriority", err)
	}
}

func TestTodoService_Create_DueDateRoundTrip(t *testing.T) {
	todos := &mockTodoRepository{}
	svc, _, _ := newTestTodoService(t, todos, &mockCategoryRepository{})

	future := time.Now().In(testLocation(t)).Add(48 * time.Hour).Truncate(time.Second)
	wire := future.Format(model.DueDateLayout)

	resp, err := svc.Create(context.Background(), 1, &model.TodoRequest{
		Title:   "dentist",
		DueDate: wire,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The same wall-clock string must come back out
	if resp.DueDate == nil || *resp.DueDate != wire {
		t.Errorf("due_date = %v, want %q", resp.DueDate, wire)
	}
}

func TestTodoService_Create_InvalidDueDate(t *testing.T) {
	svc, _, _ := newTestTodoService(t, &mockTodoRepository{}, &mockCategoryRepository{})

	_, err := svc.Create(context.Background(), 1, &model.TodoRequest{
		Title:   "x",
		DueDate: "tomorrow at noon",
	})
	if !errors.Is(err, model.ErrInvalidDueDate) {
		t.Errorf("err = %v, want ErrInvalidDueDate", err)
	}
}

func TestTodoService_Create_RejectsForeignCategory(t *testing.T) {
	categories := &mockCategoryRepository{
		existsForUserFn: func(ctx context.Context, userID, id int64) (bool, error) {
			return false, nil
		},
	}
	svc, _, _ := newTestTodoService(t, &mockTodoRepository{}, categories)

	cid := int64(99)
	_, err := svc.Create(context.Background(), 1, &model.TodoRequest{
		Title:      "x",
		CategoryID: &cid,
	})
	if !errors.Is(err, model.ErrCategoryNotFound) {
		t.Errorf("err = %v, want ErrCategoryNotFound", err)
	}
}

func TestTodoService_Create_SchedulesFutureReminder(t *testing.T) {
	todos := &mockTodoRepository{
		createFn: func(ctx context.Context, todo *model.Todo) error {
			todo.ID = 9
			return nil
		},
	}
	svc, sched, _ := newTestTodoService(t, todos, &mockCategoryRepository{})

	future := time.Now().In(testLocation(t)).Add(time.Hour).Truncate(time.Second)
	_, err := svc.Create(context.Background(), 1, &model.TodoRequest{
		Title:   "call mom",
		DueDate: future.Format(model.DueDateLayout),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, ok := sched.scheduled[9]; !ok {
		t.Error("expected a reminder to be scheduled for todo 9")
	}
}

func TestTodoService_Create_NoReminderWithoutDueDate(t *testing.T) {
	svc, sched, _ := newTestTodoService(t, &mockTodoRepository{}, &mockCategoryRepository{})

	if _, err := svc.Create(context.Background(), 1, &model.TodoRequest{Title: "someday"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(sched.scheduled) != 0 {
		t.Errorf("scheduled = %v, want none", sched.scheduled)
	}
}

// =============================================================================
// LIST / SEARCH TESTS
// =============================================================================

func TestTodoService_List_RejectsUnknownFilterValues(t *testing.T) {
	svc, _, _ := newTestTodoService(t, &mockTodoRepository{}, &mockCategoryRepository{})

	if _, err := svc.List(context.Background(), 1, RawTodoFilter{Status: "archived"}); !errors.Is(err, model.ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.List(context.Background(), 1, RawTodoFilter{Priority: "urgent"}); !errors.Is(err, model.ErrInvalidPriority) {
		t.Errorf("err = %v, want ErrInvalidPriority", err)
	}
	if _, err := svc.List(context.Background(), 1, RawTodoFilter{DueDate: "03/04/2026"}); !errors.Is(err, model.ErrInvalidDueDate) {
		t.Errorf("err = %v, want ErrInvalidDueDate", err)
	}
}

func TestTodoService_List_DueDateDayWindow(t *testing.T) {
	todos := &mockTodoRepository{}
	svc, _, _ := newTestTodoService(t, todos, &mockCategoryRepository{})

	if _, err := svc.List(context.Background(), 1, RawTodoFilter{DueDate: "2026-09-15"}); err != nil {
		t.Fatalf("list: %v", err)
	}

	loc := testLocation(t)
	wantFrom := time.Date(2026, 9, 15, 0, 0, 0, 0, loc)
	wantTo := time.Date(2026, 9, 16, 0, 0, 0, 0, loc)

	if todos.lastFilter.DueFrom == nil || !todos.lastFilter.DueFrom.Equal(wantFrom) {
		t.Errorf("DueFrom = %v, want %v", todos.lastFilter.DueFrom, wantFrom)
	}
	if todos.lastFilter.DueTo == nil || !todos.lastFilter.DueTo.Equal(wantTo) {
		t.Errorf("DueTo = %v, want %v", todos.lastFilter.DueTo, wantTo)
	}
}

func TestTodoService_List_EmptyResultIsNotAnError(t *testing.T) {
	svc, _, _ := newTestTodoService(t, &mockTodoRepository{}, &mockCategoryRepository{})

	got, err := svc.List(context.Background(), 1, RawTodoFilter{Status: model.StatusCompleted})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

// =============================================================================
// UPDATE / DELETE / COMPLETE TESTS
// =============================================================================

func TestTodoService_Update_NotOwnedLooksLikeMissing(t *testing.T) {
	todos := &mockTodoRepository{
		updateFn: func(ctx context.Context, todo *model.Todo) error {
			return model.ErrTodoNotFound
		},
	}
	svc, _, _ := newTestTodoService(t, todos, &mockCategoryRepository{})

	_, err := svc.Update(context.Background(), 2, 1, &model.TodoRequest{Title: "steal"})
	if !errors.Is(err, model.ErrTodoNotFound) {
		t.Errorf("err = %v, want ErrTodoNotFound", err)
	}
}

func TestTodoService_Update_ClearingDueDateCancelsReminder(t *testing.T) {
	svc, sched, _ := newTestTodoService(t, &mockTodoRepository{}, &mockCategoryRepository{})

	sched.Schedule(3, 1, "old", time.Now().Add(time.Hour))

	_, err := svc.Update(context.Background(), 1, 3, &model.TodoRequest{Title: "no deadline now"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, ok := sched.scheduled[3]; ok {
		t.Error("reminder should be cancelled when due date is cleared")
	}
}

func TestTodoService_Update_CompletedStatusCancelsReminder(t *testing.T) {
	svc, sched, _ := newTestTodoService(t, &mockTodoRepository{}, &mockCategoryRepository{})

	future := time.Now().In(testLocation(t)).Add(time.Hour).Truncate(time.Second)
	_, err := svc.Update(context.Background(), 1, 4, &model.TodoRequest{
		Title:   "done already",
		Status:  model.StatusCompleted,
		DueDate: future.Format(model.DueDateLayout),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, ok := sched.scheduled[4]; ok {
		t.Error("completed todo should not keep a reminder")
	}
}

func TestTodoService_Delete_CancelsReminder(t *testing.T) {
	svc, sched, _ := newTestTodoService(t, &mockTodoRepository{}, &mockCategoryRepository{})

	sched.Schedule(6, 1, "x", time.Now().Add(time.Hour))

	if err := svc.Delete(context.Background(), 1, 6); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok := sched.scheduled[6]; ok {
		t.Error("reminder should be cancelled on delete")
	}
}

func TestTodoService_Complete(t *testing.T) {
	var setStatus string
	todos := &mockTodoRepository{
		setStatusFn: func(ctx context.Context, userID, id int64, status string) error {
			setStatus = status
			return nil
		},
		getByIDFn: func(ctx context.Context, userID, id int64) (*model.Todo, error) {
			return &model.Todo{ID: id, UserID: userID, Title: "done", Status: model.StatusCompleted}, nil
		},
	}
	svc, sched, pub := newTestTodoService(t, todos, &mockCategoryRepository{})
	sched.Schedule(8, 1, "done", time.Now().Add(time.Hour))

	resp, err := svc.Complete(context.Background(), 1, 8)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if setStatus != model.StatusCompleted {
		t.Errorf("status written = %q, want completed", setStatus)
	}
	if resp.Status != model.StatusCompleted {
		t.Errorf("response status = %q, want completed", resp.Status)
	}
	if _, ok := sched.scheduled[8]; ok {
		t.Error("reminder should be cancelled on completion")
	}
	if len(pub.completed) != 1 || pub.completed[0] != 8 {
		t.Errorf("completed events = %v, want [8]", pub.completed)
	}
}

// =============================================================================
// REHYDRATION TESTS
// =============================================================================

func TestTodoService_RehydrateReminders(t *testing.T) {
	future := time.Now().Add(time.Hour)
	todos := &mockTodoRepository{
		listPendingDueAfterFn: func(ctx context.Context, at time.Time) ([]model.Todo, error) {
			return []model.Todo{
				{ID: 1, UserID: 10, Title: "a", Status: model.StatusPending, DueDate: &future},
				{ID: 2, UserID: 11, Title: "b", Status: model.StatusPending, DueDate: &future},
				{ID: 3, UserID: 12, Title: "no due date", Status: model.StatusPending},
			}, nil
		},
	}
	svc, sched, _ := newTestTodoService(t, todos, &mockCategoryRepository{})

	if err := svc.RehydrateReminders(context.Background()); err != nil {
		t.Fatalf("rehydrate: %v", err)
	}

	if len(sched.scheduled) != 2 {
		t.Errorf("scheduled %d reminders, want 2", len(sched.scheduled))
	}
}

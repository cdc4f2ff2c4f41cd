package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_FiresOnce(t *testing.T) {
	var fired int64
	done := make(chan struct{})

	s := New(func(todoID, userID int64, title string) {
		atomic.AddInt64(&fired, 1)
		close(done)
	})
	defer s.Stop()

	s.Schedule(1, 10, "water plants", time.Now().Add(20*time.Millisecond))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reminder did not fire")
	}

	// Give any spurious second firing a chance to show up
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt64(&fired); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}

	// A fired reminder must remove itself from the registry
	if s.Len() != 0 {
		t.Errorf("registry size = %d after firing, want 0", s.Len())
	}
}

func TestScheduler_PastDueDateIsNoOp(t *testing.T) {
	s := New(func(todoID, userID int64, title string) {
		t.Error("reminder for past due date should never fire")
	})
	defer s.Stop()

	s.Schedule(1, 10, "old task", time.Now().Add(-time.Hour))

	if s.Len() != 0 {
		t.Errorf("registry size = %d, want 0", s.Len())
	}

	time.Sleep(50 * time.Millisecond)
}

func TestScheduler_RescheduleReplacesTimer(t *testing.T) {
	var fired int64
	done := make(chan struct{})

	s := New(func(todoID, userID int64, title string) {
		atomic.AddInt64(&fired, 1)
		close(done)
	})
	defer s.Stop()

	// First schedule far out, then replace with a near one. Only the
	// replacement may fire.
	s.Schedule(1, 10, "v1", time.Now().Add(time.Hour))
	s.Schedule(1, 10, "v2", time.Now().Add(20*time.Millisecond))

	if s.Len() != 1 {
		t.Fatalf("registry size = %d after reschedule, want 1", s.Len())
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("rescheduled reminder did not fire")
	}

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt64(&fired); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
}

func TestScheduler_CancelStopsTimer(t *testing.T) {
	s := New(func(todoID, userID int64, title string) {
		t.Error("cancelled reminder should never fire")
	})
	defer s.Stop()

	s.Schedule(1, 10, "task", time.Now().Add(30*time.Millisecond))
	s.Cancel(1)

	if s.Len() != 0 {
		t.Errorf("registry size = %d after cancel, want 0", s.Len())
	}

	time.Sleep(100 * time.Millisecond)
}

func TestScheduler_CancelUnknownIsIdempotent(t *testing.T) {
	s := New(func(todoID, userID int64, title string) {})
	defer s.Stop()

	// Must not panic or error
	s.Cancel(42)
	s.Cancel(42)
}

func TestScheduler_ConcurrentReschedule(t *testing.T) {
	var fired int64
	s := New(func(todoID, userID int64, title string) {
		atomic.AddInt64(&fired, 1)
	})
	defer s.Stop()

	// Hammer the same todo from many goroutines; the registry must stay
	// consistent and hold at most one timer for it.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				s.Schedule(7, 10, "contested", time.Now().Add(time.Hour))
			} else {
				s.Cancel(7)
			}
		}(i)
	}
	wg.Wait()

	if got := s.Len(); got > 1 {
		t.Errorf("registry size = %d, want at most 1", got)
	}

	if atomic.LoadInt64(&fired) != 0 {
		t.Error("far-future reminder fired during churn")
	}
}

func TestScheduler_IndependentTodos(t *testing.T) {
	var mu sync.Mutex
	firedIDs := make(map[int64]bool)
	done := make(chan struct{})

	s := New(func(todoID, userID int64, title string) {
		mu.Lock()
		firedIDs[todoID] = true
		if len(firedIDs) == 2 {
			close(done)
		}
		mu.Unlock()
	})
	defer s.Stop()

	s.Schedule(1, 10, "a", time.Now().Add(20*time.Millisecond))
	s.Schedule(2, 10, "b", time.Now().Add(20*time.Millisecond))
	s.Schedule(3, 10, "c", time.Now().Add(time.Hour))
	s.Cancel(3)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not all reminders fired")
	}

	mu.Lock()
	defer mu.Unlock()
	if !firedIDs[1] || !firedIDs[2] {
		t.Errorf("fired = %v, want todos 1 and 2", firedIDs)
	}
	if firedIDs[3] {
		t.Error("cancelled todo 3 fired")
	}
}

package scheduler

import (
	"log"
	"sync"
	"time"
)

// FireFunc is invoked from the timer goroutine when a reminder comes due.
// Implementations must not block for long; the server wires this to a queue
// publish so delivery latency never reaches request handling.
type FireFunc func(todoID, userID int64, title string)

// Scheduler is the process-wide reminder registry: one live timer per todo.
// All mutation goes through Schedule/Cancel/Stop under a single mutex, since
// replace-on-reschedule is a read-check-then-write sequence that must not
// race with timer callbacks removing themselves.
type Scheduler struct {
	mu     sync.Mutex
	timers map[int64]*time.Timer
	fire   FireFunc
}

// New creates a Scheduler that calls fire for every due reminder.
func New(fire FireFunc) *Scheduler {
	return &Scheduler{
		timers: make(map[int64]*time.Timer),
		fire:   fire,
	}
}

// Schedule registers a one-shot firing at fireAt. Instants at or before now
// are ignored (no retroactive firing). An existing timer for the same todo
// is cancelled first, so there is never more than one live timer per todo.
func (s *Scheduler) Schedule(todoID, userID int64, title string, fireAt time.Time) {
	now := time.Now()
	if !fireAt.After(now) {
		log.Printf("[Scheduler] Skip past instant: todo=%d fireAt=%s", todoID, fireAt.Format(time.RFC3339))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[todoID]; ok {
		old.Stop()
		delete(s.timers, todoID)
		log.Printf("[Scheduler] Replaced timer: todo=%d", todoID)
	}

	var timer *time.Timer
	timer = time.AfterFunc(fireAt.Sub(now), func() {
		s.mu.Lock()
		current, ok := s.timers[todoID]
		if !ok || current != timer {
			// Cancelled or replaced between expiry and lock acquisition.
			s.mu.Unlock()
			return
		}
		delete(s.timers, todoID)
		s.mu.Unlock()

		log.Printf("[Scheduler] Fired: todo=%d user=%d", todoID, userID)
		s.fire(todoID, userID, title)
	})

	s.timers[todoID] = timer
	log.Printf("[Scheduler] Scheduled: todo=%d fireAt=%s", todoID, fireAt.Format(time.RFC3339))
}

// Cancel stops and removes the todo's timer. No-op if none exists.
func (s *Scheduler) Cancel(todoID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[todoID]
	if !ok {
		return
	}

	timer.Stop()
	delete(s.timers, todoID)
	log.Printf("[Scheduler] Cancelled: todo=%d", todoID)
}

// Len returns the number of live timers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every live timer. Called on shutdown; pending reminders are
// rebuilt by the rehydration pass on the next start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for todoID, timer := range s.timers {
		timer.Stop()
		delete(s.timers, todoID)
	}
	log.Printf("[Scheduler] Stopped, all timers cancelled")
}

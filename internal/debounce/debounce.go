// Package debounce provides a single-slot deferred action scheduler.
// Scheduling while an action is pending replaces it, so a burst of calls
// collapses into one execution after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Scheduler holds at most one pending deferred action
type Scheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewScheduler creates a new Scheduler with no pending action
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule cancels any previously scheduled, not-yet-fired action and arms
// a new deferred execution of fn after delay. Exactly one execution happens
// per quiet period; a superseded action never runs, even if its timer had
// already expired when the replacement arrived.
func (s *Scheduler) Schedule(fn func(), delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		// Stop() cannot cancel a callback that is already underway, so
		// re-check under the lock that this timer is still the armed one.
		s.mu.Lock()
		current := s.timer == t
		if current {
			s.timer = nil
		}
		s.mu.Unlock()

		if current {
			fn()
		}
	})
	s.timer = t
}

// Pending reports whether an action is armed but not yet fired
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Stop cancels the pending action, if any
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

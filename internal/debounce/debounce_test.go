package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedule_FiresOnce(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Int32

	s.Schedule(func() { fired.Add(1) }, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
	if s.Pending() {
		t.Error("Pending() = true after fire, want false")
	}
}

func TestSchedule_BurstCollapsesToOne(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Int32

	// Each call lands well inside the previous delay window
	for i := 0; i < 10; i++ {
		s.Schedule(func() { fired.Add(1) }, 50*time.Millisecond)
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want exactly 1 for the burst", got)
	}
}

func TestSchedule_ReplacementDropsOldAction(t *testing.T) {
	s := NewScheduler()
	var old, replacement atomic.Int32

	s.Schedule(func() { old.Add(1) }, 30*time.Millisecond)
	s.Schedule(func() { replacement.Add(1) }, 30*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	if got := old.Load(); got != 0 {
		t.Errorf("superseded action fired %d times, want 0", got)
	}
	if got := replacement.Load(); got != 1 {
		t.Errorf("replacement fired %d times, want 1", got)
	}
}

func TestSchedule_SequentialQuietPeriods(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Int32

	s.Schedule(func() { fired.Add(1) }, 10*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	s.Schedule(func() { fired.Add(1) }, 10*time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	if got := fired.Load(); got != 2 {
		t.Errorf("fired %d times, want 2 (one per quiet period)", got)
	}
}

func TestPending(t *testing.T) {
	s := NewScheduler()

	if s.Pending() {
		t.Error("Pending() = true on fresh scheduler")
	}

	s.Schedule(func() {}, time.Hour)
	if !s.Pending() {
		t.Error("Pending() = false with armed action")
	}

	s.Stop()
	if s.Pending() {
		t.Error("Pending() = true after Stop")
	}
}

func TestStop_CancelsPendingAction(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Int32

	s.Schedule(func() { fired.Add(1) }, 20*time.Millisecond)
	s.Stop()

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("fired %d times after Stop, want 0", got)
	}
}

func TestStop_NoPendingAction(t *testing.T) {
	s := NewScheduler()
	// Must not panic
	s.Stop()
	s.Stop()
}

package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/roach88/petsy/internal/memory"
)

// ManualScheduler is a memory.Scheduler driven by virtual time.
//
// Callbacks fire only inside Advance, on the caller's goroutine, in due-time
// order (ties broken by arming order). This makes countdown and settle
// behaviour fully deterministic in tests.
type ManualScheduler struct {
	// LeakStopped makes Stop report success without preventing the callback
	// from firing, like a real timer that already expired and posted its
	// callback to the event loop.
	LeakStopped bool

	mu      sync.Mutex
	now     time.Duration
	seq     int64
	pending []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int64
	f       func()
	stopped bool
	fired   bool
}

// NewManualScheduler creates a scheduler at virtual time 0.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements memory.Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) memory.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.pending = append(s.pending, t)
	return t
}

// Stop implements memory.Timer.
func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	if t.s.LeakStopped {
		return true
	}
	t.stopped = true
	return true
}

// Now returns the current virtual time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of armed, unfired, unstopped callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves virtual time forward by d, firing every callback that
// becomes due. Callbacks armed while advancing fire too if they fall within
// the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		t.f()
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
}

// nextDue pops the earliest live timer due at or before target and moves
// virtual time to its deadline.
func (s *ManualScheduler) nextDue(target time.Duration) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.pending[:0]
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	s.pending = live

	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].at != s.pending[j].at {
			return s.pending[i].at < s.pending[j].at
		}
		return s.pending[i].seq < s.pending[j].seq
	})

	if len(s.pending) == 0 || s.pending[0].at > target {
		return nil
	}
	t := s.pending[0]
	t.fired = true
	s.now = t.at
	return t
}

package store

import "sync/atomic"

// Clock is the monotonic logical clock that stamps journal entries.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though a Recorder only ever calls it from the game loop.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number. The first call returns 1.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

package engine

import (
	"errors"
	"fmt"
)

// Player input goes through TryPost, which enforces the loop's pending-task
// quota. Timer callbacks and internal work use Post and are never refused,
// so a flooding client can only lose its own input, never a countdown tick.

// WithMaxPending caps how many tasks TryPost will leave queued. Zero (the
// default) means no cap.
func WithMaxPending(n int) LoopOption {
	return func(l *Loop) {
		l.maxPending = n
	}
}

// TryPost submits a task unless the quota is exhausted or the loop is
// stopped.
func (l *Loop) TryPost(t Task) error {
	if l.maxPending > 0 {
		if pending := l.queue.Len(); pending >= l.maxPending {
			return &QueueFullError{Loop: l.name, Pending: pending, Limit: l.maxPending}
		}
	}
	if !l.queue.Enqueue(t) {
		return ErrStopped
	}
	return nil
}

// QueueFullError is returned by TryPost when the loop already holds its
// limit of pending tasks.
type QueueFullError struct {
	Loop    string
	Pending int
	Limit   int
}

// Error implements the error interface.
func (e *QueueFullError) Error() string {
	return fmt.Sprintf("loop %s is busy: %d pending tasks >= %d limit", e.Loop, e.Pending, e.Limit)
}

// IsQueueFull reports whether err is a QueueFullError.
// Uses errors.As to handle wrapped errors.
func IsQueueFull(err error) bool {
	var qe *QueueFullError
	return errors.As(err, &qe)
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/petsy/internal/memory"
)

// ErrStopped is returned when posting to a loop that has been stopped.
var ErrStopped = errors.New("event loop stopped")

// Loop is the single-writer event loop.
//
// Thread-safety model:
//   - Post(), TryPost(), Call(), AfterFunc(), Stop(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//
// Tasks run strictly one at a time in FIFO order.
type Loop struct {
	queue      *taskQueue
	logger     *slog.Logger
	name       string
	maxPending int
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger sets the loop logger (default: slog.Default()).
func WithLogger(l *slog.Logger) LoopOption {
	return func(lp *Loop) {
		lp.logger = l
	}
}

// WithName labels the loop in log output.
func WithName(name string) LoopOption {
	return func(lp *Loop) {
		lp.name = name
	}
}

// NewLoop creates a loop. Nothing runs until Run is called.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		queue:  newTaskQueue(),
		logger: slog.Default(),
		name:   "game",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post submits a task. Returns false if the loop has been stopped.
func (l *Loop) Post(t Task) bool {
	return l.queue.Enqueue(t)
}

// Call posts fn and waits until it has run on the loop goroutine.
// Must not be called from the loop goroutine itself.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc implements memory.Scheduler. When the timer expires f is posted
// to the loop.
func (l *Loop) AfterFunc(d time.Duration, f func()) memory.Timer {
	return loopTimer{t: time.AfterFunc(d, func() {
		l.Post(f)
	})}
}

type loopTimer struct {
	t *time.Timer
}

func (lt loopTimer) Stop() bool {
	return lt.t.Stop()
}

// Run processes tasks until ctx is cancelled or Stop is called.
//
// ERROR HANDLING: a panicking task is recovered and logged, and processing
// continues with the next task.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("event loop starting", "loop", l.name)

	for {
		task, ok := l.queue.TryDequeue()
		if ok {
			l.runTask(task)
			continue
		}

		select {
		case <-ctx.Done():
			l.logger.Info("event loop stopping: context cancelled", "loop", l.name)
			l.queue.Close()
			return ctx.Err()

		case <-l.queue.Wait():
			// The signal channel closes when the queue is closed; keep
			// draining until nothing is left.
			if l.queue.Closed() && l.queue.Len() == 0 {
				l.logger.Info("event loop stopping: queue closed", "loop", l.name)
				return nil
			}
		}
	}
}

// Stop closes the queue. Tasks already queued still run; Run returns once
// they are drained.
func (l *Loop) Stop() {
	l.queue.Close()
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	return l.queue.Len()
}

func (l *Loop) runTask(t Task) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked",
				"loop", l.name,
				"panic", fmt.Sprint(r),
			)
		}
	}()
	t()
}

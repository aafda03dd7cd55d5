package engine

import "sync"

// Task is a unit of work executed on the loop goroutine.
type Task func()

// taskQueue is a thread-safe FIFO queue for tasks.
//
// The queue is unbounded so that tasks posted from inside other tasks never
// block the loop.
//
// The queue uses a channel for signaling to enable context-aware waiting
// in the Run loop.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool
	signal chan struct{} // Signals task availability (buffered, size 1)
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		tasks:  make([]Task, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a task to the back of the queue.
// Returns false if the queue is closed.
func (q *taskQueue) Enqueue(t Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.tasks = append(q.tasks, t)

	// Non-blocking: buffer of 1 coalesces multiple signals
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes the front task without blocking.
func (q *taskQueue) TryDequeue() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, false
	}

	t := q.tasks[0]
	// Release the closure so it can be collected.
	q.tasks[0] = nil

	if len(q.tasks) == 1 {
		q.tasks = q.tasks[:0]
	} else {
		q.tasks = q.tasks[1:]
	}

	return t, true
}

// Wait returns a channel that signals when tasks may be available. It is
// closed when the queue is closed.
func (q *taskQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Close stops accepting tasks and wakes any waiter.
func (q *taskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}

// Closed reports whether Close has been called.
func (q *taskQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

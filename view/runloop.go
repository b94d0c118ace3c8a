package view

import (
	"context"
	"log/slog"
	"sync"
)

// RunLoop is the host event loop: a FIFO of posted work drained by a single
// consumer, plus a set of one-shot idle callbacks that fire when the queue
// goes empty.
//
// Thread-safety model:
//   - Post(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//   - Turn(), PerformWhenIdle(): loop goroutine only
//
// The idle phase is the coalescing point: any number of same-turn change
// signals marks work dirty, and the single idle pass drains it once.
type RunLoop struct {
	queue *workQueue

	// Idle callbacks are one-shot and self-invalidating: the slice is taken
	// and cleared before the callbacks run, so re-registration during the
	// idle phase lands in the next turn.
	idle []func()
}

// NewRunLoop creates an empty loop.
func NewRunLoop() *RunLoop {
	return &RunLoop{queue: newWorkQueue()}
}

// Post enqueues work for the loop goroutine.
// Thread-safe. Returns false if the loop has been stopped.
func (l *RunLoop) Post(fn func()) bool {
	return l.queue.enqueue(fn)
}

// PerformWhenIdle registers a callback for the end of the current turn.
// Callbacks run exactly once, in registration order.
func (l *RunLoop) PerformWhenIdle(fn func()) {
	l.idle = append(l.idle, fn)
}

// PendingIdleCount returns the number of registered idle callbacks.
// Exposed for tests that verify coalescing registers exactly one.
func (l *RunLoop) PendingIdleCount() int {
	return len(l.idle)
}

// Turn runs one event-loop turn synchronously: drain all queued work, then
// fire the idle callbacks. Used by tests and the scene simulator to step the
// loop deterministically.
func (l *RunLoop) Turn() {
	for {
		fn, ok := l.queue.tryDequeue()
		if !ok {
			break
		}
		fn()
	}
	l.drainIdle()
}

func (l *RunLoop) drainIdle() {
	for len(l.idle) > 0 {
		callbacks := l.idle
		l.idle = nil
		for _, fn := range callbacks {
			fn()
		}
		// Callbacks may have posted more work; that work belongs to the next
		// turn, but callbacks they registered directly fire now so a turn
		// always ends fully idle.
		if l.queue.len() > 0 {
			break
		}
	}
}

// Run starts the loop and blocks until the context is cancelled or Stop is
// called. Must be called from exactly one goroutine.
//
// Work item panics are not recovered: a panic here is a programmer error
// (the engine itself never panics during evaluation).
func (l *RunLoop) Run(ctx context.Context) error {
	slog.Info("run loop starting")

	for {
		fn, ok := l.queue.tryDequeue()
		if ok {
			fn()
			continue
		}

		// Queue drained - the loop is about to go idle.
		l.drainIdle()

		select {
		case <-ctx.Done():
			slog.Info("run loop stopping: context cancelled")
			l.queue.close()
			return ctx.Err()

		case <-l.queue.wait():
			if l.queue.len() == 0 && l.queue.isClosed() {
				slog.Info("run loop stopping: queue closed")
				return nil
			}
		}
	}
}

// Stop closes the queue, causing Run to return after the pending work drains.
func (l *RunLoop) Stop() {
	l.queue.close()
}

// workQueue is a thread-safe unbounded FIFO with a buffered signal channel
// for context-aware waiting in Run.
type workQueue struct {
	mu     sync.Mutex
	items  []func()
	closed bool
	signal chan struct{}
}

func newWorkQueue() *workQueue {
	return &workQueue{
		items:  make([]func(), 0, 16),
		signal: make(chan struct{}, 1),
	}
}

func (q *workQueue) enqueue(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, fn)

	// Non-blocking send: the buffer of 1 coalesces multiple signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

func (q *workQueue) tryDequeue() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}
	fn := q.items[0]
	q.items[0] = nil // release the closure for GC
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return fn, true
}

func (q *workQueue) wait() <-chan struct{} {
	return q.signal
}

func (q *workQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *workQueue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *workQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}

// Package dispatch hands work from background goroutines to the single
// goroutine that owns UI state.
package dispatch

import (
	"context"
	"log/slog"
	"sync"
)

// Dispatcher runs fn on the UI-owning goroutine. Functions are run in the
// order they were dispatched.
type Dispatcher interface {
	Dispatch(fn func())
}

// Func adapts a toolkit's "run on main thread" function, e.g. fyne.Do.
type Func func(fn func())

func (f Func) Dispatch(fn func()) { f(fn) }

// Queue is a FIFO of functions drained by exactly one Run loop.
type Queue struct {
	ch   chan func()
	done chan struct{}
	once sync.Once
}

// NewQueue returns a Queue buffering up to size pending functions.
func NewQueue(size int) *Queue {
	return &Queue{
		ch:   make(chan func(), size),
		done: make(chan struct{}),
	}
}

// Dispatch enqueues fn. It blocks while the queue is full and drops fn
// once Run has returned.
func (q *Queue) Dispatch(fn func()) {
	select {
	case <-q.done:
		slog.Debug("dispatch queue stopped, dropping work")
	case q.ch <- fn:
	}
}

// Run executes queued functions on the calling goroutine until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	defer q.once.Do(func() { close(q.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-q.ch:
			fn()
		}
	}
}

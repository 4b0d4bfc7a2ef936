// Package hotkey detects copy actions and invokes a callback for each one.
//
// Two Listener implementations exist: Hook, a passive global keyboard hook
// for the platform copy shortcut, and Watcher, which fires on clipboard
// change signals from a clip.Backend. The rest of the program only sees the
// Listener interface.
package hotkey

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.klb.dev/clipcount/internal/clip"
)

// Trigger names accepted by New.
const (
	TriggerHook  = "hook"
	TriggerWatch = "watch"
)

// ErrRunning is returned by Start on a listener that is already started.
var ErrRunning = errors.New("listener already running")

// Listener is a start/stop lifecycle around a copy detector. Stop must be
// called before the process exits so OS hooks are released.
type Listener interface {
	Start() error
	Stop()
}

// New returns the Listener for trigger. fn runs on its own goroutine for
// every detected copy, never on the detector's loop.
func New(trigger string, backend clip.Backend, fn func()) (Listener, error) {
	switch trigger {
	case TriggerHook, "":
		return NewHook(fn), nil
	case TriggerWatch:
		return NewWatcher(backend, fn), nil
	default:
		return nil, fmt.Errorf("unknown trigger %q (want %s or %s)", trigger, TriggerHook, TriggerWatch)
	}
}

// Watcher fires whenever the clipboard backend reports a change.
type Watcher struct {
	backend clip.Backend
	fn      func()

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func NewWatcher(backend clip.Backend, fn func()) *Watcher {
	return &Watcher{backend: backend, fn: fn}
}

func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrRunning
	}
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.running = true

	go w.loop(w.backend.Watch(), w.stop, w.done)
	slog.Info("clipboard watch started", "backend", w.backend.Name())
	return nil
}

func (w *Watcher) loop(changes <-chan struct{}, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case <-changes:
			go w.fn()
		}
	}
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	close(w.stop)
	<-w.done
	w.running = false
	slog.Info("clipboard watch stopped")
}

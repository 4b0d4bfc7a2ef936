package hotkey

import (
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// hookStopTimeout bounds how long Stop waits for the hook loop to drain.
const hookStopTimeout = 2 * time.Second

// CopyKeys returns the gohook key combination for copy on this platform.
func CopyKeys() []string {
	if runtime.GOOS == "darwin" {
		return []string{"c", "cmd"}
	}
	return []string{"c", "ctrl"}
}

// Hook listens globally for the copy shortcut. The hook is passive: the
// key press still reaches the focused application.
//
// gohook keeps a single process-wide registry, so only one Hook may run at
// a time.
type Hook struct {
	keys []string
	fn   func()

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

func NewHook(fn func()) *Hook {
	return &Hook{keys: CopyKeys(), fn: fn}
}

func (h *Hook) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return ErrRunning
	}

	hook.Register(hook.KeyDown, h.keys, func(hook.Event) {
		go h.fn()
	})
	events := hook.Start()
	h.done = make(chan struct{})
	h.running = true

	go func(done chan struct{}) {
		<-hook.Process(events)
		close(done)
	}(h.done)

	slog.Info("copy hook started", "keys", strings.Join(h.keys, "+"))
	return nil
}

// Stop unhooks the keyboard and waits for the event loop to finish.
func (h *Hook) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.running {
		return
	}
	hook.End()
	select {
	case <-h.done:
	case <-time.After(hookStopTimeout):
		slog.Warn("copy hook did not stop in time")
	}
	h.running = false
	slog.Info("copy hook stopped")
}

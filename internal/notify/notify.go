// Package notify raises transient desktop notifications for copy events.
package notify

import (
	"log/slog"
	"time"

	"go.klb.dev/clipcount/internal/settings"
)

// AppName is shown as the notification's application name.
const AppName = "ClipCounter"

// Backend delivers one notification to the OS.
type Backend interface {
	Name() string
	Send(title, message string, timeout time.Duration) error
}

// Notifier gates a Backend on the live user settings.
type Notifier struct {
	backend  Backend
	settings *settings.Live
}

func New(backend Backend, live *settings.Live) *Notifier {
	return &Notifier{backend: backend, settings: live}
}

// Notify shows title and message unless notifications are disabled.
// Delivery failures are logged and otherwise ignored.
func (n *Notifier) Notify(title, message string) {
	s := n.settings.Get()
	if !s.NotifyEnabled {
		return
	}
	if err := n.backend.Send(title, message, s.Timeout()); err != nil {
		slog.Debug("notification not shown", "backend", n.backend.Name(), "err", err)
	}
}

// Discard is a Backend that drops every notification.
type Discard struct{}

func (Discard) Name() string                            { return "discard" }
func (Discard) Send(_, _ string, _ time.Duration) error { return nil }

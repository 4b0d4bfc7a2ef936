// Package reader turns a copy signal into a history record: it waits for
// the clipboard to settle, classifies the content, hands the record to the
// UI thread and raises a notification.
package reader

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.klb.dev/clipcount/internal/clip"
	"go.klb.dev/clipcount/internal/dispatch"
	"go.klb.dev/clipcount/internal/history"
	"go.klb.dev/clipcount/internal/hub"
	"go.klb.dev/clipcount/internal/measure"
)

// DefaultSettle is how long to wait after the key combination before the
// clipboard is expected to hold the new content.
const DefaultSettle = 100 * time.Millisecond

// Notifier shows a summary of a copy event.
type Notifier interface {
	Notify(title, message string)
}

// Event is a classified copy: the record plus its notification text.
type Event struct {
	Record  history.Record
	Title   string
	Message string
}

// Config wires a Reader. Hub and OnInsert are optional.
type Config struct {
	Backend    clip.Backend
	History    *history.Buffer
	Dispatcher dispatch.Dispatcher
	Notifier   Notifier
	Hub        *hub.Hub
	Settle     time.Duration

	// OnInsert runs on the UI thread right after rec was inserted.
	OnInsert func(rec history.Record)
}

// Reader handles copy signals. OnCopy is safe to call from any goroutine.
type Reader struct {
	cfg Config
	now func() time.Time
}

func New(cfg Config) *Reader {
	if cfg.Settle < 0 {
		cfg.Settle = 0
	}
	return &Reader{cfg: cfg, now: time.Now}
}

// OnCopy blocks for the settle delay, so it must not be called on the UI
// thread. Failures are logged and the event is dropped.
func (r *Reader) OnCopy() {
	defer func() {
		if p := recover(); p != nil {
			slog.Error("copy handler panicked", "panic", p)
		}
	}()

	if r.cfg.Settle > 0 {
		time.Sleep(r.cfg.Settle)
	}

	ev, err := r.Classify()
	if err != nil {
		if errors.Is(err, clip.ErrEmpty) {
			slog.Debug("copy ignored", "reason", err)
		} else {
			slog.Warn("clipboard read failed", "backend", r.cfg.Backend.Name(), "err", err)
		}
		return
	}

	rec := ev.Record
	r.cfg.Dispatcher.Dispatch(func() {
		r.cfg.History.Insert(rec)
		if r.cfg.OnInsert != nil {
			r.cfg.OnInsert(rec)
		}
	})
	hub.LogRecord("copy recorded", rec)
	r.cfg.Notifier.Notify(ev.Title, ev.Message)
	if r.cfg.Hub != nil {
		r.cfg.Hub.Publish(rec)
	}
}

// Classify reads the clipboard once and builds the Event for it.
func (r *Reader) Classify() (Event, error) {
	content, err := r.cfg.Backend.Read()
	if err != nil {
		return Event{}, err
	}
	at := r.now()

	switch {
	case content.IsFiles():
		total := measure.TotalSize(content.Files)
		rec := history.NewFilesRecord(at, len(content.Files), total)
		return Event{Record: rec, Title: "File copy", Message: rec.Preview}, nil
	case content.Text != "":
		rec := history.NewTextRecord(at, content.Text)
		return Event{Record: rec, Title: fmt.Sprintf("%d chars", rec.Chars), Message: rec.Preview}, nil
	default:
		return Event{}, clip.ErrEmpty
	}
}

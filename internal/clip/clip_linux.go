//go:build linux

package clip

import (
	"bytes"
	"log/slog"
	"time"

	"golang.design/x/clipboard"
)

const linuxPollInterval = 250 * time.Millisecond

// linuxBackend has no change notification from X11 or Wayland, so Watch
// compares the text selection on each tick.
type linuxBackend struct {
	*poller
	lastText []byte
}

// New returns the Linux clipboard backend, or the headless backend when no
// display is reachable.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return NewHeadless()
	}
	b := &linuxBackend{lastText: clipboard.Read(clipboard.FmtText)}
	b.poller = newPoller(linuxPollInterval, b.textChanged)
	return b
}

func (b *linuxBackend) Name() string           { return "Linux clipboard (poll)" }
func (b *linuxBackend) Read() (Content, error) { return readText() }

func (b *linuxBackend) textChanged() bool {
	text := clipboard.Read(clipboard.FmtText)
	if bytes.Equal(text, b.lastText) {
		return false
	}
	b.lastText = text
	return true
}

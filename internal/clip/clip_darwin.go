//go:build darwin

package clip

// #cgo CFLAGS: -x objective-c
// #cgo LDFLAGS: -framework Cocoa
// #import <Cocoa/Cocoa.h>
//
// NSInteger clipcount_changeCount() {
//     return [[NSPasteboard generalPasteboard] changeCount];
// }
import "C"

import (
	"log/slog"
	"time"

	"golang.design/x/clipboard"
)

const darwinPollInterval = 100 * time.Millisecond

// darwinBackend detects changes through NSPasteboard's changeCount, which
// also moves for file copies that leave the text flavour untouched.
type darwinBackend struct {
	*poller
	count C.NSInteger
}

// New returns the NSPasteboard backend, or the headless backend if the
// pasteboard cannot be opened.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return NewHeadless()
	}
	b := &darwinBackend{count: C.clipcount_changeCount()}
	b.poller = newPoller(darwinPollInterval, b.countChanged)
	return b
}

func (b *darwinBackend) Name() string           { return "macOS NSPasteboard" }
func (b *darwinBackend) Read() (Content, error) { return readText() }

func (b *darwinBackend) countChanged() bool {
	n := C.clipcount_changeCount()
	if n == b.count {
		return false
	}
	b.count = n
	return true
}

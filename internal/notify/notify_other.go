//go:build !linux

package notify

import (
	"time"

	"github.com/gen2brain/beeep"
)

type beeepBackend struct{}

// NewSystem returns the desktop notification backend. Toast and
// Notification Center dismiss on their own schedule, so the timeout is
// advisory here.
func NewSystem() Backend {
	beeep.AppName = AppName
	return beeepBackend{}
}

func (beeepBackend) Name() string { return "beeep" }

func (beeepBackend) Send(title, message string, _ time.Duration) error {
	return beeep.Notify(title, message, "")
}

//go:build !windows

package window

// SetTopmost is unavailable outside Windows; the window manager owns
// stacking there.
func SetTopmost(_ string, _ bool) error { return ErrUnsupported }

// Minimize is unavailable outside Windows.
func Minimize(_ string) error { return ErrUnsupported }

//go:build !darwin && !windows && !linux

package clip

// New returns a no-op backend; there is no supported clipboard API here.
func New() Backend {
	return NewHeadless()
}

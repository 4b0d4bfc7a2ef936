// Package window changes native window stacking for toolkits that do not
// expose it.
package window

import "errors"

// ErrUnsupported is returned where the platform offers no way to change
// stacking or minimise a window by title.
var ErrUnsupported = errors.New("window control is not supported on this platform")

// ErrNotFound is returned when this process owns no top-level window with
// the requested title.
var ErrNotFound = errors.New("window not found")

// firstOwned walks the windows yielded by next (starting after 0, ending
// at 0) and returns the first one whose owning process is pid. Another
// program may show a window with the same title.
func firstOwned(pid uint32, next func(after uintptr) uintptr, owner func(hwnd uintptr) uint32) uintptr {
	for hwnd := next(0); hwnd != 0; hwnd = next(hwnd) {
		if owner(hwnd) == pid {
			return hwnd
		}
	}
	return 0
}

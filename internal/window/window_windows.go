//go:build windows

package window

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32            = windows.NewLazySystemDLL("user32.dll")
	procFindWindowExW = user32.NewProc("FindWindowExW")
	procSetWindowPos  = user32.NewProc("SetWindowPos")
	procShowWindow    = user32.NewProc("ShowWindow")
)

const (
	swpNoSize     = 0x0001
	swpNoMove     = 0x0002
	swpNoActivate = 0x0010

	swMinimize = 6

	hwndTopmost   = ^uintptr(0) // (HWND)-1
	hwndNoTopmost = ^uintptr(1) // (HWND)-2
)

// findOwn returns this process's top-level window titled title.
func findOwn(title string) (uintptr, error) {
	name, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, fmt.Errorf("window title: %w", err)
	}
	next := func(after uintptr) uintptr {
		hwnd, _, _ := procFindWindowExW.Call(0, after, 0, uintptr(unsafe.Pointer(name)))
		return hwnd
	}
	owner := func(hwnd uintptr) uint32 {
		var pid uint32
		_, _ = windows.GetWindowThreadProcessId(windows.HWND(hwnd), &pid)
		return pid
	}
	hwnd := firstOwned(windows.GetCurrentProcessId(), next, owner)
	if hwnd == 0 {
		return 0, fmt.Errorf("%q: %w", title, ErrNotFound)
	}
	return hwnd, nil
}

// SetTopmost pins this process's window titled title above all
// non-topmost windows, or releases it when on is false.
func SetTopmost(title string, on bool) error {
	hwnd, err := findOwn(title)
	if err != nil {
		return err
	}
	after := hwndNoTopmost
	if on {
		after = hwndTopmost
	}
	r, _, callErr := procSetWindowPos.Call(hwnd, after, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate)
	if r == 0 {
		return fmt.Errorf("SetWindowPos: %w", callErr)
	}
	return nil
}

// Minimize iconifies this process's window titled title.
func Minimize(title string) error {
	hwnd, err := findOwn(title)
	if err != nil {
		return err
	}
	// ShowWindow returns the previous visibility, not a status.
	_, _, _ = procShowWindow.Call(hwnd, swMinimize)
	return nil
}

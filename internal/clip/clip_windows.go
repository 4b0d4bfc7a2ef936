//go:build windows

package clip

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"
	"unsafe"

	"golang.design/x/clipboard"
	"golang.org/x/sys/windows"
)

const (
	windowsPollInterval = 50 * time.Millisecond

	cfHDROP = 15
)

var (
	user32  = windows.NewLazySystemDLL("user32.dll")
	shell32 = windows.NewLazySystemDLL("shell32.dll")

	procOpenClipboard              = user32.NewProc("OpenClipboard")
	procCloseClipboard             = user32.NewProc("CloseClipboard")
	procIsClipboardFormatAvailable = user32.NewProc("IsClipboardFormatAvailable")
	procGetClipboardData           = user32.NewProc("GetClipboardData")
	procGetClipboardSequenceNumber = user32.NewProc("GetClipboardSequenceNumber")
	procDragQueryFileW             = shell32.NewProc("DragQueryFileW")
)

type windowsBackend struct {
	*poller
	seq uintptr
}

// New returns the Windows clipboard backend. Watch follows the clipboard
// sequence number, which changes on every copy including file copies.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard init failed", "err", err)
	}
	b := &windowsBackend{seq: sequenceNumber()}
	b.poller = newPoller(windowsPollInterval, b.seqChanged)
	return b
}

func (b *windowsBackend) Name() string { return "Windows Clipboard" }

func (b *windowsBackend) Read() (Content, error) {
	files, err := readDroppedFiles()
	if err != nil {
		return Content{}, err
	}
	if len(files) > 0 {
		return Content{Files: files}, nil
	}
	return readText()
}

func (b *windowsBackend) seqChanged() bool {
	seq := sequenceNumber()
	if seq == b.seq {
		return false
	}
	b.seq = seq
	return true
}

func sequenceNumber() uintptr {
	seq, _, _ := procGetClipboardSequenceNumber.Call()
	return seq
}

// withClipboard opens the clipboard, runs fn and closes it again.
// OpenClipboard and CloseClipboard must run on the same OS thread, so the
// goroutine is locked to its thread for the whole call.
func withClipboard(fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if ok, _, err := procOpenClipboard.Call(0); ok == 0 {
		return fmt.Errorf("open clipboard: %w", err)
	}
	defer func() {
		if ok, _, err := procCloseClipboard.Call(); ok == 0 {
			slog.Warn("close clipboard failed", "err", err)
		}
	}()
	return fn()
}

// readDroppedFiles returns the CF_HDROP file list, or nil if the format is
// not on the clipboard.
func readDroppedFiles() ([]string, error) {
	if ok, _, _ := procIsClipboardFormatAvailable.Call(cfHDROP); ok == 0 {
		return nil, nil
	}

	var files []string
	err := withClipboard(func() error {
		hdrop, _, err := procGetClipboardData.Call(cfHDROP)
		if hdrop == 0 {
			return fmt.Errorf("get CF_HDROP: %w", err)
		}
		files = dragQueryFiles(hdrop)
		return nil
	})
	return files, err
}

func dragQueryFiles(hdrop uintptr) []string {
	n, _, _ := procDragQueryFileW.Call(hdrop, 0xFFFFFFFF, 0, 0)
	files := make([]string, 0, n)
	for i := uintptr(0); i < n; i++ {
		size, _, _ := procDragQueryFileW.Call(hdrop, i, 0, 0)
		buf := make([]uint16, size+1)
		procDragQueryFileW.Call(hdrop, i, uintptr(unsafe.Pointer(&buf[0])), size+1)
		files = append(files, windows.UTF16ToString(buf))
	}
	return files
}

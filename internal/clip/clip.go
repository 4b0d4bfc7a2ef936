// Package clip provides a unified, read-only view of the system clipboard
// across platforms. Build constraints select the implementation:
//
//	clip_windows.go   Windows: CF_HDROP file lists via shell32, text via
//	                  golang.design/x/clipboard
//	clip_darwin.go    macOS via golang.design/x/clipboard + cgo changeCount
//	clip_linux.go     Linux via golang.design/x/clipboard, polling only
//	clip_other.go     no supported API, falls back to clip_headless.go
package clip

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	"golang.design/x/clipboard"
)

// ErrEmpty is returned by Read when the clipboard holds neither text nor
// a file list.
var ErrEmpty = errors.New("clipboard holds no text or files")

// Content is what a copy left on the clipboard. Exactly one of Files and
// Text is set.
type Content struct {
	Files []string
	Text  string
}

// IsFiles reports whether the clipboard held a file-path list.
func (c Content) IsFiles() bool { return len(c.Files) > 0 }

// Backend is the interface that all platform clipboard implementations satisfy.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Read returns the current clipboard contents. A file list wins over
	// text. Returns ErrEmpty if neither format is present.
	Read() (Content, error)

	// Watch returns a channel that receives a signal whenever the clipboard
	// changes. The channel is never closed. On platforms without native
	// change notification this is implemented via polling.
	Watch() <-chan struct{}

	// Close releases any resources held by the backend.
	Close()
}

// readText reads the text format through golang.design/x/clipboard and
// promotes file-URI lists (as put there by Linux and macOS file managers)
// to a file Content.
func readText() (Content, error) {
	text := clipboard.Read(clipboard.FmtText)
	if len(text) == 0 {
		return Content{}, ErrEmpty
	}
	s := string(text)
	if files := ParseFileList(s); len(files) > 0 {
		return Content{Files: files}, nil
	}
	return Content{Text: s}, nil
}

// ParseFileList interprets s as a text/uri-list, optionally preceded by the
// GNOME "copy" or "cut" verb line. It returns nil unless every entry is a
// file:// URI.
func ParseFileList(s string) []string {
	lines := strings.Split(strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n"), "\n")
	if len(lines) > 0 && (lines[0] == "copy" || lines[0] == "cut") {
		lines = lines[1:]
	}

	var paths []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}
		u, err := url.Parse(l)
		if err != nil || u.Scheme != "file" || u.Path == "" {
			return nil
		}
		p := u.Path
		if len(p) > 2 && p[0] == '/' && p[2] == ':' {
			p = p[1:] // file:///C:/dir
		}
		paths = append(paths, filepath.FromSlash(p))
	}
	return paths
}

// signal performs a non-blocking send on a watch channel.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

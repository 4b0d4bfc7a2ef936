// Package ipc locates and opens the local channel used by the "history" and
// "watch" sub-commands to reach a running monitor: a Unix domain socket,
// or a named pipe on Windows.
package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// probeTimeout bounds the liveness dial in IsRunning.
const probeTimeout = 500 * time.Millisecond

// SocketPath returns the platform-appropriate path for the IPC channel.
//
//   - $CLIPCOUNT_SOCKET if set
//   - Linux:   $XDG_RUNTIME_DIR/clipcount.sock, else $TMPDIR
//   - macOS:   $TMPDIR/clipcount.sock (per-user on macOS)
//   - Windows: \\.\pipe\clipcount
func SocketPath() string {
	if s := os.Getenv("CLIPCOUNT_SOCKET"); s != "" {
		return s
	}
	return defaultPath()
}

// Dial connects to the monitor listening on path.
func Dial(ctx context.Context, path string) (net.Conn, error) {
	return dial(ctx, path)
}

// IsRunning reports whether a monitor appears to be listening on path.
// It does a cheap dial-and-close; no data is exchanged.
func IsRunning(path string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	c, err := dial(ctx, path)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen opens the IPC channel at path. A stale socket from a previous
// (crashed) run is replaced; a live one is left alone.
func Listen(path string) (net.Listener, error) {
	if IsRunning(path) {
		return nil, fmt.Errorf("another instance is listening on %s", path)
	}
	return listen(path)
}

//go:build windows

package ipc

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

const pipeName = `\\.\pipe\clipcount`

// SocketName is the pipe name used on Windows.
const SocketName = "clipcount"

func defaultPath() string { return pipeName }

func listen(path string) (net.Listener, error) {
	// The default security descriptor grants the creating user full access
	// and everyone else read, which is fine for history metadata.
	return winio.ListenPipe(path, nil)
}

func dial(ctx context.Context, path string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, path)
}

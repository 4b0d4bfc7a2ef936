//go:build !windows

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipcount/internal/control"
	"go.klb.dev/clipcount/internal/history"
	"go.klb.dev/clipcount/internal/hub"
	"go.klb.dev/clipcount/internal/ipc"
	"go.klb.dev/clipcount/internal/settings"
)

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "clipcount dev\n", out.String())
}

func TestBindViper_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "clipcount.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("trigger = \"watch\"\nsettle = \"250ms\"\nheadless = true\n"), 0o600))
	t.Setenv("CLIPCOUNT_SETTLE", "40ms")

	cmd := newMonitorCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--config", cfg, "--headless=false"}))
	v := viper.New()
	require.NoError(t, bindViper(cmd, v))

	assert.Equal(t, "watch", v.GetString("trigger"), "config file over default")
	assert.Equal(t, 40*time.Millisecond, v.GetDuration("settle"), "env over config file")
	assert.False(t, v.GetBool("headless"), "flag over config file")
}

func TestBindViper_BadConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "clipcount.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("trigger = "), 0o600))

	cmd := newMonitorCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--config", cfg}))
	assert.Error(t, bindViper(cmd, viper.New()))
}

func TestConfigDirs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, []string{"/etc/clipcount", filepath.Join(home, ".config", "clipcount")}, configDirs())
}

func TestBindViper_DashedKeysFromEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLIPCOUNT_NO_CONTROL", "true")
	t.Setenv("CLIPCOUNT_MINIMIZED", "false")

	cmd := newMonitorCmd()
	require.NoError(t, cmd.Flags().Parse(nil))
	v := viper.New()
	require.NoError(t, bindViper(cmd, v))

	assert.True(t, v.GetBool("no-control"))
	assert.False(t, v.GetBool("minimized"))
}

func TestMonitorCmd_StartsMinimizedByDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := newMonitorCmd()
	require.NoError(t, cmd.Flags().Parse(nil))
	v := viper.New()
	require.NoError(t, bindViper(cmd, v))
	assert.True(t, v.GetBool("minimized"))
}

func TestPrintHistory(t *testing.T) {
	var out bytes.Buffer
	printHistory(&out, nil)
	assert.Equal(t, "No copies recorded yet.\n", out.String())

	out.Reset()
	at := time.Date(2024, 1, 1, 9, 30, 5, 0, time.Local)
	printHistory(&out, []history.Record{
		history.NewFilesRecord(at, 2, 1536),
		history.NewTextRecord(at, "hi"),
	})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "09:30:05")
	assert.Contains(t, lines[2], "📁 2 files (total 1.5KB)")
	assert.Contains(t, lines[3], "hi")
}

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHistoryCmd_AgainstMonitor(t *testing.T) {
	dir, err := os.MkdirTemp("", "cc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	path := filepath.Join(dir, "c.sock")

	buf := history.New(history.Capacity)
	buf.Insert(history.NewTextRecord(time.Now(), "from the monitor"))
	srv, err := control.NewServer(control.NewService(buf, hub.New(), settings.NewLive(settings.Default())))
	require.NoError(t, err)
	ln, err := ipc.Listen(path)
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(srv.Close)

	out, err := runCmd(t, newRootCmd(), "history", "--json", "--socket", path)
	require.NoError(t, err)
	var records []history.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "from the monitor", records[0].Preview)
}

func TestHistoryCmd_NoMonitor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.sock")
	_, err := runCmd(t, newRootCmd(), "history", "--socket", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no clipcount monitor")
}

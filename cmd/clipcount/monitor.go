package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipcount/internal/clip"
	"go.klb.dev/clipcount/internal/control"
	"go.klb.dev/clipcount/internal/dispatch"
	"go.klb.dev/clipcount/internal/history"
	"go.klb.dev/clipcount/internal/hotkey"
	"go.klb.dev/clipcount/internal/hub"
	"go.klb.dev/clipcount/internal/ipc"
	"go.klb.dev/clipcount/internal/notify"
	"go.klb.dev/clipcount/internal/reader"
	"go.klb.dev/clipcount/internal/settings"
	"go.klb.dev/clipcount/internal/ui"
)

// headlessQueueSize bounds pending UI-thread work in headless mode.
const headlessQueueSize = 64

func newMonitorCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "clipcount",
		Short: "Count the characters and files you copy",
		Long: `clipcount watches for copy actions (Ctrl+C, or Cmd+C on macOS), measures
what landed on the clipboard and keeps the last 10 copies in a small window.
Text is counted in user-perceived characters; file copies show the file
count and total size. A desktop notification summarises each copy.

Run "clipcount history" or "clipcount watch" to read a running instance
over its local control socket.

Config file search order (first found wins):
  /etc/clipcount/clipcount.toml
  $HOME/.config/clipcount/clipcount.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPCOUNT_* env vars → flags`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE:      func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:         func(_ *cobra.Command, _ []string) error { return runMonitor(v) },
	}

	f := cmd.Flags()
	f.Bool("headless", false, "run without a window; history is still served on the control socket")
	f.String("trigger", hotkey.TriggerHook, "copy detection: hook (global Ctrl+C) or watch (clipboard changes)")
	f.Duration("settle", reader.DefaultSettle, "delay between the copy signal and the clipboard read")
	f.String("settings", settings.DefaultPath(), "path to the user settings JSON file")
	f.Bool("no-control", false, "do not open the control socket")
	f.Bool("minimized", true, "start with the window minimised")
	addCommonFlags(cmd, true)

	return cmd
}

// monitor holds what must be torn down on exit.
type monitor struct {
	store    *settings.Store
	live     *settings.Live
	backend  clip.Backend
	listener hotkey.Listener
	ctl      *control.Server

	once sync.Once
}

// shutdown stops the listener, closes the control server and saves the
// settings, in that order. Safe to call more than once.
func (m *monitor) shutdown() {
	m.once.Do(func() {
		if m.listener != nil {
			m.listener.Stop()
		}
		if m.ctl != nil {
			m.ctl.Close()
		}
		if err := m.store.Save(m.live.Get()); err != nil {
			slog.Warn("settings not saved", "path", m.store.Path(), "err", err)
		}
		m.backend.Close()
		slog.Info("clipcount stopped")
	})
}

func runMonitor(v *viper.Viper) error {
	setupLogging(v)

	headless := v.GetBool("headless")
	trigger := v.GetString("trigger")

	store := settings.NewStore(v.GetString("settings"))
	initial, err := store.Load()
	if err != nil {
		slog.Warn("settings file has errors, defaults used for bad entries", "path", store.Path(), "err", err)
	}
	live := settings.NewLive(initial)

	backend := clip.New()
	if !headless && clip.IsHeadless(backend) {
		return errors.New("no clipboard available; run with --headless")
	}

	slog.Info("clipcount starting",
		"version", Version,
		"headless", headless,
		"trigger", trigger,
		"clipboard", backend.Name(),
		"settings", store.Path(),
	)

	buf := history.New(history.Capacity)
	h := hub.New()
	m := &monitor{store: store, live: live, backend: backend}

	var (
		app        *ui.App
		queue      *dispatch.Queue
		dispatcher dispatch.Dispatcher
		onInsert   func(history.Record)
	)
	if headless {
		queue = dispatch.NewQueue(headlessQueueSize)
		dispatcher = queue
	} else {
		app = ui.New(buf, live, store)
		app.StartMinimized(v.GetBool("minimized"))
		dispatcher = app.Dispatcher()
		onInsert = app.Refresh
	}

	r := reader.New(reader.Config{
		Backend:    backend,
		History:    buf,
		Dispatcher: dispatcher,
		Notifier:   notify.New(notify.NewSystem(), live),
		Hub:        h,
		Settle:     v.GetDuration("settle"),
		OnInsert:   onInsert,
	})

	listener, err := hotkey.New(trigger, backend, r.OnCopy)
	if err != nil {
		backend.Close()
		return err
	}
	if err := listener.Start(); err != nil {
		backend.Close()
		return fmt.Errorf("start %s trigger: %w", trigger, err)
	}
	m.listener = listener

	if !v.GetBool("no-control") {
		m.ctl = startControl(control.NewService(buf, h, live))
	}

	if headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		_ = queue.Run(ctx)
		m.shutdown()
		return nil
	}

	app.SetOnQuit(m.shutdown)
	app.Run()
	m.shutdown()
	return nil
}

// startControl opens the control socket and serves svc on it. A failure
// is logged and the monitor runs without one.
func startControl(svc *control.Service) *control.Server {
	path := ipc.SocketPath()
	ln, err := ipc.Listen(path)
	if err != nil {
		slog.Warn("control socket unavailable", "path", path, "err", err)
		return nil
	}
	srv, err := control.NewServer(svc)
	if err != nil {
		_ = ln.Close()
		slog.Warn("control server not started", "err", err)
		return nil
	}
	go func() {
		if err := srv.Serve(ln); err != nil {
			slog.Warn("control socket closed", "err", err)
		}
	}()
	return srv
}

// Package ui is the Fyne front end: the history table, the Settings/Exit
// menu and the settings window. All widget state is touched on the Fyne
// main goroutine only; background work reaches it through Dispatcher.
package ui

import (
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"go.klb.dev/clipcount/internal/dispatch"
	"go.klb.dev/clipcount/internal/history"
	"go.klb.dev/clipcount/internal/settings"
	"go.klb.dev/clipcount/internal/window"
)

const (
	AppID = "dev.klb.clipcount"
	Title = "clipcount"
)

var columns = []struct {
	header string
	width  float32
}{
	{"Time", 100},
	{"Chars/Size", 120},
	{"Preview", 300},
}

// App owns the Fyne application and its windows.
type App struct {
	fyneApp  fyne.App
	window   fyne.Window
	table    *widget.Table
	status   *widget.Label
	settings fyne.Window

	history *history.Buffer
	live    *settings.Live
	store   *settings.Store

	minimized bool
	onQuit    func()
	quitOnce  sync.Once
}

// New creates the main window. It must be called on the main goroutine.
func New(h *history.Buffer, live *settings.Live, store *settings.Store) *App {
	a := &App{
		fyneApp: app.NewWithID(AppID),
		history: h,
		live:    live,
		store:   store,
	}
	a.createMainWindow()

	live.OnChange(func(s settings.Settings) { a.applyTopmost(s.AlwaysOnTop) })
	a.fyneApp.Lifecycle().SetOnStarted(a.started)
	return a
}

// StartMinimized iconifies the main window once the event loop is up, so
// the monitor stays out of the way until the user looks at it.
func (a *App) StartMinimized(on bool) { a.minimized = on }

func (a *App) started() {
	a.applyTopmost(a.live.Get().AlwaysOnTop)
	if !a.minimized {
		return
	}
	if err := window.Minimize(Title); err != nil {
		if errors.Is(err, window.ErrUnsupported) {
			slog.Debug("start minimized unavailable", "err", err)
			return
		}
		slog.Warn("window not minimized", "err", err)
	}
}

// Dispatcher runs work on the Fyne main goroutine.
func (a *App) Dispatcher() dispatch.Dispatcher {
	return dispatch.Func(fyne.Do)
}

// SetOnQuit registers cleanup to run once before the application exits.
func (a *App) SetOnQuit(fn func()) { a.onQuit = fn }

// Refresh redraws the history table after rec was inserted. UI thread only.
func (a *App) Refresh(rec history.Record) {
	a.table.Refresh()
	a.table.ScrollToTop()
	slog.Debug("history table refreshed", "time", rec.Time)
}

// Run shows the main window and blocks until the application quits.
func (a *App) Run() {
	a.window.ShowAndRun()
}

func (a *App) createMainWindow() {
	a.window = a.fyneApp.NewWindow(Title)
	a.window.Resize(fyne.NewSize(600, 300))
	a.window.SetMaster()

	exit := fyne.NewMenuItem("Exit", a.quit)
	exit.IsQuit = true
	a.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("Settings",
			fyne.NewMenuItem("Settings…", a.openSettings),
			fyne.NewMenuItemSeparator(),
			exit,
		),
	))

	a.status = widget.NewLabel("Watching Ctrl+C…")
	a.status.Alignment = fyne.TextAlignCenter
	a.table = a.newHistoryTable()

	a.window.SetContent(container.NewBorder(a.status, nil, nil, nil, a.table))
	a.window.SetCloseIntercept(a.quit)
}

func (a *App) newHistoryTable() *widget.Table {
	t := widget.NewTableWithHeaders(
		func() (int, int) { return a.history.Len(), len(columns) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			rec, ok := a.history.At(id.Row)
			if !ok {
				obj.(*widget.Label).SetText("")
				return
			}
			obj.(*widget.Label).SetText(cellText(rec, id.Col))
		},
	)
	t.ShowHeaderColumn = false
	t.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		if id.Col >= 0 && id.Col < len(columns) {
			obj.(*widget.Label).SetText(columns[id.Col].header)
		}
	}
	for i, c := range columns {
		t.SetColumnWidth(i, c.width)
	}
	return t
}

func cellText(rec history.Record, col int) string {
	switch col {
	case 0:
		return rec.Time
	case 1:
		return rec.Measurement
	default:
		return rec.Preview
	}
}

// openSettings shows the settings window, or focuses it if already open.
func (a *App) openSettings() {
	if a.settings != nil {
		a.settings.RequestFocus()
		return
	}

	cur := a.live.Get()
	w := a.fyneApp.NewWindow("Settings")

	notify := widget.NewCheck("Show a notification on copy", nil)
	notify.SetChecked(cur.NotifyEnabled)
	notify.OnChanged = a.live.SetNotifyEnabled

	onTop := widget.NewCheck("Always on top", nil)
	onTop.SetChecked(cur.AlwaysOnTop)
	onTop.OnChanged = a.live.SetAlwaysOnTop

	timeouts := make([]string, 0, settings.MaxTimeout)
	for i := settings.MinTimeout; i <= settings.MaxTimeout; i++ {
		timeouts = append(timeouts, strconv.Itoa(i))
	}
	timeout := widget.NewSelect(timeouts, nil)
	timeout.SetSelected(strconv.Itoa(cur.NotifyTimeout))
	timeout.OnChanged = func(v string) {
		if n, err := strconv.Atoi(v); err == nil {
			a.live.SetNotifyTimeout(n)
		}
	}

	save := widget.NewButton("Save and close", func() {
		a.save()
		w.Close()
	})

	w.SetContent(container.NewVBox(
		notify,
		onTop,
		container.NewHBox(widget.NewLabel("Notification seconds:"), timeout),
		layout.NewSpacer(),
		save,
	))
	w.Resize(fyne.NewSize(300, 250))
	w.SetOnClosed(func() { a.settings = nil })
	a.settings = w
	w.Show()
}

func (a *App) save() {
	if err := a.store.Save(a.live.Get()); err != nil {
		slog.Warn("settings not saved", "path", a.store.Path(), "err", err)
		return
	}
	slog.Debug("settings saved", "path", a.store.Path())
}

func (a *App) applyTopmost(on bool) {
	if err := window.SetTopmost(Title, on); err != nil {
		if errors.Is(err, window.ErrUnsupported) {
			slog.Debug("always-on-top unavailable", "err", err)
			return
		}
		slog.Warn("always-on-top not applied", "err", err)
	}
}

// quit runs the shutdown hook once and exits the event loop.
func (a *App) quit() {
	a.quitOnce.Do(func() {
		if a.onQuit != nil {
			a.onQuit()
		}
		a.fyneApp.Quit()
	})
}

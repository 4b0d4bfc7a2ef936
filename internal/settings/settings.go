// Package settings persists the user preferences edited in the settings
// window: notification toggle, notification timeout and always-on-top.
//
// The file is a small JSON object:
//
//	{"notify_enabled": true, "notify_timeout": 3, "always_on_top": false}
//
// A missing file or missing keys fall back to defaults. A malformed file is
// reported but still yields defaults; it is never fatal.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	KeyNotifyEnabled = "notify_enabled"
	KeyNotifyTimeout = "notify_timeout"
	KeyAlwaysOnTop   = "always_on_top"
)

// Notification timeout bounds, in seconds.
const (
	MinTimeout = 1
	MaxTimeout = 10
)

// FileName is the default settings file name.
const FileName = "config.json"

// Settings are the user preferences.
type Settings struct {
	NotifyEnabled bool `json:"notify_enabled"`
	NotifyTimeout int  `json:"notify_timeout"`
	AlwaysOnTop   bool `json:"always_on_top"`
}

// Default returns notify on, 3 second timeout, normal stacking.
func Default() Settings {
	return Settings{
		NotifyEnabled: true,
		NotifyTimeout: 3,
		AlwaysOnTop:   false,
	}
}

// Clamp forces NotifyTimeout into [MinTimeout, MaxTimeout].
func (s Settings) Clamp() Settings {
	s.NotifyTimeout = clampTimeout(s.NotifyTimeout)
	return s
}

// Timeout returns the notification display time.
func (s Settings) Timeout() time.Duration {
	return time.Duration(clampTimeout(s.NotifyTimeout)) * time.Second
}

func clampTimeout(n int) int {
	return min(max(n, MinTimeout), MaxTimeout)
}

// DefaultPath returns <user config dir>/clipcount/config.json, or
// config.json in the working directory if no config dir is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, "clipcount", FileName)
}

// Store reads and writes Settings at a fixed path.
type Store struct {
	path string
}

// NewStore returns a Store for path. An empty path selects DefaultPath.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the settings file. The returned Settings are always usable:
// an unreadable file yields the defaults and a key with a value of the
// wrong type keeps its default; both are reported in the error. A missing
// file is not an error.
func (s *Store) Load() (Settings, error) {
	d := Default()

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	v.SetDefault(KeyNotifyEnabled, d.NotifyEnabled)
	v.SetDefault(KeyNotifyTimeout, d.NotifyTimeout)
	v.SetDefault(KeyAlwaysOnTop, d.AlwaysOnTop)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return d, nil
		}
		return d, fmt.Errorf("read settings %s: %w", s.path, err)
	}

	// viper's typed getters turn a mistyped value into a zero value, so
	// each key is cast strictly and keeps its default when that fails.
	var errs []error
	out := d
	if b, err := cast.ToBoolE(v.Get(KeyNotifyEnabled)); err == nil {
		out.NotifyEnabled = b
	} else {
		errs = append(errs, fmt.Errorf("%s: %w", KeyNotifyEnabled, err))
	}
	if n, err := cast.ToIntE(v.Get(KeyNotifyTimeout)); err == nil {
		out.NotifyTimeout = n
	} else {
		errs = append(errs, fmt.Errorf("%s: %w", KeyNotifyTimeout, err))
	}
	if b, err := cast.ToBoolE(v.Get(KeyAlwaysOnTop)); err == nil {
		out.AlwaysOnTop = b
	} else {
		errs = append(errs, fmt.Errorf("%s: %w", KeyAlwaysOnTop, err))
	}

	if err := errors.Join(errs...); err != nil {
		return out.Clamp(), fmt.Errorf("settings %s: %w", s.path, err)
	}
	return out.Clamp(), nil
}

// Save writes st to the settings file, creating its directory.
func (s *Store) Save(st Settings) error {
	st = st.Clamp()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set(KeyNotifyEnabled, st.NotifyEnabled)
	v.Set(KeyNotifyTimeout, st.NotifyTimeout)
	v.Set(KeyAlwaysOnTop, st.AlwaysOnTop)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write settings %s: %w", s.path, err)
	}
	return nil
}

// Live is the in-memory copy of the settings shared between the UI, which
// mutates it through the setters, and the notifier, which reads it.
type Live struct {
	mu        sync.RWMutex
	s         Settings
	listeners []func(Settings)
}

func NewLive(s Settings) *Live {
	return &Live{s: s.Clamp()}
}

// Get returns the current settings.
func (l *Live) Get() Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.s
}

// OnChange registers fn to be called with the new settings after every
// setter call. fn runs on the caller's goroutine.
func (l *Live) OnChange(fn func(Settings)) {
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

func (l *Live) SetNotifyEnabled(on bool) {
	l.update(func(s *Settings) { s.NotifyEnabled = on })
}

// SetNotifyTimeout sets the timeout in seconds, clamped to [1, 10].
func (l *Live) SetNotifyTimeout(seconds int) {
	l.update(func(s *Settings) { s.NotifyTimeout = clampTimeout(seconds) })
}

func (l *Live) SetAlwaysOnTop(on bool) {
	l.update(func(s *Settings) { s.AlwaysOnTop = on })
}

func (l *Live) update(fn func(*Settings)) {
	l.mu.Lock()
	fn(&l.s)
	s := l.s
	listeners := append([]func(Settings){}, l.listeners...)
	l.mu.Unlock()

	for _, cb := range listeners {
		cb(s)
	}
}

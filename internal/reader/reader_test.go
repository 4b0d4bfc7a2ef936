package reader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipcount/internal/clip"
	"go.klb.dev/clipcount/internal/dispatch"
	"go.klb.dev/clipcount/internal/history"
	"go.klb.dev/clipcount/internal/hub"
	"go.klb.dev/clipcount/internal/notify"
	"go.klb.dev/clipcount/internal/settings"
)

type fakeBackend struct {
	mu      sync.Mutex
	content clip.Content
	err     error
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Read() (clip.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.content, f.err
}

func (f *fakeBackend) Watch() <-chan struct{} { return nil }
func (f *fakeBackend) Close()                 {}

func (f *fakeBackend) set(c clip.Content, err error) {
	f.mu.Lock()
	f.content, f.err = c, err
	f.mu.Unlock()
}

type countingBackend struct {
	mu    sync.Mutex
	calls []string
}

func (c *countingBackend) Name() string { return "counting" }

func (c *countingBackend) Send(title, _ string, _ time.Duration) error {
	c.mu.Lock()
	c.calls = append(c.calls, title)
	c.mu.Unlock()
	return nil
}

// inline runs dispatched work immediately and counts it.
type inline struct{ n int }

func (d *inline) Dispatch(fn func()) {
	d.n++
	fn()
}

var fixed = time.Date(2024, 1, 2, 15, 4, 5, 0, time.Local)

func newReader(b clip.Backend, live *settings.Live) (*Reader, *history.Buffer, *countingBackend, *inline) {
	buf := history.New(history.Capacity)
	nb := &countingBackend{}
	d := &inline{}
	r := New(Config{
		Backend:    b,
		History:    buf,
		Dispatcher: d,
		Notifier:   notify.New(nb, live),
	})
	r.now = func() time.Time { return fixed }
	return r, buf, nb, d
}

func TestOnCopy_Text(t *testing.T) {
	b := &fakeBackend{content: clip.Content{Text: "Hello 👋🏽\nworld"}}
	r, buf, nb, d := newReader(b, settings.NewLive(settings.Default()))

	r.OnCopy()

	require.Equal(t, 1, buf.Len())
	rec, _ := buf.At(0)
	assert.Equal(t, "15:04:05", rec.Time)
	assert.Equal(t, "13", rec.Measurement)
	assert.Equal(t, "Hello 👋🏽 world", rec.Preview)
	assert.Equal(t, 1, d.n)
	assert.Equal(t, []string{"13 chars"}, nb.calls)
}

func TestOnCopy_Files(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(a, make([]byte, 1536), 0o600))
	b := &fakeBackend{content: clip.Content{Files: []string{a, filepath.Join(dir, "missing")}}}
	r, buf, nb, _ := newReader(b, settings.NewLive(settings.Default()))

	r.OnCopy()

	rec, ok := buf.At(0)
	require.True(t, ok)
	assert.Equal(t, history.KindFiles, rec.Kind)
	assert.Equal(t, "-", rec.Measurement)
	assert.Equal(t, "📁 2 files (total 1.5KB)", rec.Preview)
	assert.Equal(t, []string{"File copy"}, nb.calls)
}

func TestOnCopy_DropsOnErrorAndEmpty(t *testing.T) {
	b := &fakeBackend{err: errors.New("clipboard busy")}
	r, buf, nb, d := newReader(b, settings.NewLive(settings.Default()))

	r.OnCopy()
	b.set(clip.Content{}, clip.ErrEmpty)
	r.OnCopy()
	b.set(clip.Content{}, nil)
	r.OnCopy()

	assert.Zero(t, buf.Len())
	assert.Empty(t, nb.calls)
	assert.Zero(t, d.n)
}

func TestOnCopy_NotificationsDisabledHistoryContinues(t *testing.T) {
	b := &fakeBackend{content: clip.Content{Text: "abc"}}
	live := settings.NewLive(settings.Settings{NotifyEnabled: false, NotifyTimeout: 3})
	r, buf, nb, _ := newReader(b, live)

	for i := 0; i < 15; i++ {
		r.OnCopy()
	}

	assert.Equal(t, history.Capacity, buf.Len())
	assert.Empty(t, nb.calls)
}

func TestOnCopy_PublishesAndRunsOnInsert(t *testing.T) {
	b := &fakeBackend{content: clip.Content{Text: "x"}}
	h := hub.New()
	sub := hub.NewChanPeer("sub", 1)
	h.Register(sub)

	var inserted []history.Record
	buf := history.New(history.Capacity)
	r := New(Config{
		Backend:    b,
		History:    buf,
		Dispatcher: &inline{},
		Notifier:   notify.New(notify.Discard{}, settings.NewLive(settings.Default())),
		Hub:        h,
		OnInsert:   func(rec history.Record) { inserted = append(inserted, rec) },
	})
	r.OnCopy()

	require.Len(t, inserted, 1)
	select {
	case got := <-sub.C():
		assert.Equal(t, inserted[0], got)
	default:
		t.Fatal("record not published")
	}
}

func TestOnCopy_ThroughQueue(t *testing.T) {
	b := &fakeBackend{content: clip.Content{Text: "queued"}}
	q := dispatch.NewQueue(8)
	buf := history.New(history.Capacity)
	inserted := make(chan struct{}, 1)
	r := New(Config{
		Backend:    b,
		History:    buf,
		Dispatcher: q,
		Notifier:   notify.New(notify.Discard{}, settings.NewLive(settings.Default())),
		Settle:     5 * time.Millisecond,
		OnInsert:   func(history.Record) { inserted <- struct{}{} },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = q.Run(ctx) }()
	go r.OnCopy()

	select {
	case <-inserted:
	case <-time.After(2 * time.Second):
		t.Fatal("record never reached the UI loop")
	}
	assert.Equal(t, 1, buf.Len())
}

func TestClassify_Empty(t *testing.T) {
	r, _, _, _ := newReader(&fakeBackend{}, settings.NewLive(settings.Default()))
	_, err := r.Classify()
	assert.ErrorIs(t, err, clip.ErrEmpty)
}

func TestNew_NegativeSettle(t *testing.T) {
	r := New(Config{Settle: -time.Second})
	assert.Zero(t, r.cfg.Settle)
}

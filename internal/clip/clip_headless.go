package clip

// headlessBackend is a no-op clipboard backend for environments without a
// display server (headless Linux servers, containers, etc.).
// It never produces Watch events and always reads as empty.
type headlessBackend struct {
	watchCh chan struct{}
}

// NewHeadless returns the no-op backend.
func NewHeadless() Backend {
	return &headlessBackend{watchCh: make(chan struct{})}
}

func (b *headlessBackend) Name() string           { return "headless (no-op)" }
func (b *headlessBackend) Read() (Content, error) { return Content{}, ErrEmpty }
func (b *headlessBackend) Watch() <-chan struct{} { return b.watchCh }
func (b *headlessBackend) Close()                 {}

// IsHeadless reports whether b is the no-op backend, i.e. no real
// clipboard could be opened.
func IsHeadless(b Backend) bool {
	_, ok := b.(*headlessBackend)
	return ok
}

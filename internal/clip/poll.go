package clip

import (
	"sync"
	"time"
)

// poller turns a change probe into Watch signals. The polling goroutine is
// started by the first Watch call, so a backend that is only ever Read
// (the key-hook trigger) costs nothing between copies.
type poller struct {
	interval time.Duration
	changed  func() bool

	ch      chan struct{}
	done    chan struct{}
	started sync.Once
	stopped sync.Once
}

// newPoller calls changed every interval once watched. changed runs on the
// polling goroutine only.
func newPoller(interval time.Duration, changed func() bool) *poller {
	return &poller{
		interval: interval,
		changed:  changed,
		ch:       make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

func (p *poller) Watch() <-chan struct{} {
	p.started.Do(func() { go p.run() })
	return p.ch
}

func (p *poller) Close() { p.stopped.Do(func() { close(p.done) }) }

func (p *poller) run() {
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-p.done:
			return
		case <-t.C:
			if p.isClosed() {
				return
			}
			if p.changed() {
				signal(p.ch)
			}
		}
	}
}

func (p *poller) isClosed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

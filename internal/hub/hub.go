// Package hub fans copy records out to live subscribers (control-socket
// watch streams). It is transport-agnostic: peers register, receive records
// through a non-blocking Send, and are removed when they go away.
package hub

import (
	"log/slog"
	"sort"
	"sync"

	"go.klb.dev/clipcount/internal/history"
)

// Peer is anything that can receive records from the hub.
type Peer interface {
	ID() string
	// Send delivers a record to the peer. Must be non-blocking.
	Send(history.Record)
}

// Hub routes records to every registered peer.
type Hub struct {
	mu    sync.RWMutex
	peers map[string]Peer
}

// New returns an empty Hub.
func New() *Hub {
	return &Hub{peers: make(map[string]Peer)}
}

// Register adds a peer.
func (h *Hub) Register(p Peer) {
	h.mu.Lock()
	h.peers[p.ID()] = p
	total := len(h.peers)
	h.mu.Unlock()

	slog.Debug("subscriber registered", "peer", p.ID(), "total", total)
}

// Unregister removes a peer from the hub.
func (h *Hub) Unregister(p Peer) {
	h.mu.Lock()
	delete(h.peers, p.ID())
	total := len(h.peers)
	h.mu.Unlock()

	slog.Debug("subscriber unregistered", "peer", p.ID(), "total", total)
}

// Publish delivers rec to all peers.
func (h *Hub) Publish(rec history.Record) {
	h.mu.RLock()
	targets := make([]Peer, 0, len(h.peers))
	for _, p := range h.peers {
		targets = append(targets, p)
	}
	h.mu.RUnlock()

	for _, p := range targets {
		p.Send(rec)
	}
}

// Peers returns the sorted IDs of all registered peers.
func (h *Hub) Peers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, 0, len(h.peers))
	for id := range h.peers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ChanPeer is a Peer backed by a buffered channel. Records arriving while
// the buffer is full are dropped.
type ChanPeer struct {
	id string
	ch chan history.Record
}

func NewChanPeer(id string, size int) *ChanPeer {
	return &ChanPeer{id: id, ch: make(chan history.Record, size)}
}

func (p *ChanPeer) ID() string { return p.id }

func (p *ChanPeer) Send(rec history.Record) {
	select {
	case p.ch <- rec:
	default:
		slog.Warn("subscriber channel full, dropping", "peer", p.id)
	}
}

// C returns the channel records are delivered on.
func (p *ChanPeer) C() <-chan history.Record { return p.ch }

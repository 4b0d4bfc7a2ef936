// Package history holds the bounded, newest-first list of copy events.
package history

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.klb.dev/clipcount/internal/measure"
)

// Capacity is the number of records kept by default.
const Capacity = 10

// TimeFormat is the time-of-day layout used for Record.Time.
const TimeFormat = "15:04:05"

// Kind identifies what was copied.
type Kind string

const (
	KindText  Kind = "text"
	KindFiles Kind = "files"
)

// Record is a single copy event. It is never modified after creation.
type Record struct {
	Time        string `json:"time"`
	Kind        Kind   `json:"kind"`
	Measurement string `json:"measurement"` // grapheme count, or "-" for files
	Preview     string `json:"preview"`

	Chars int   `json:"chars,omitempty"`
	Files int   `json:"files,omitempty"`
	Bytes int64 `json:"bytes,omitempty"`
}

// NewTextRecord measures text copied at the given time.
func NewTextRecord(at time.Time, text string) Record {
	n := measure.Graphemes(text)
	return Record{
		Time:        at.Format(TimeFormat),
		Kind:        KindText,
		Measurement: strconv.Itoa(n),
		Preview:     measure.Preview(text),
		Chars:       n,
	}
}

// NewFilesRecord describes a copy of files whose sizes sum to total.
func NewFilesRecord(at time.Time, files int, total int64) Record {
	return Record{
		Time:        at.Format(TimeFormat),
		Kind:        KindFiles,
		Measurement: "-",
		Preview:     fmt.Sprintf("📁 %d files (total %s)", files, measure.FormatSize(total)),
		Files:       files,
		Bytes:       total,
	}
}

// Buffer is a fixed-capacity list of records, newest first.
//
// Insert is expected to run on the UI thread only; the mutex lets other
// goroutines take snapshots.
type Buffer struct {
	mu       sync.RWMutex
	capacity int
	records  []Record
}

// New returns an empty Buffer. A non-positive capacity selects Capacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = Capacity
	}
	return &Buffer{
		capacity: capacity,
		records:  make([]Record, 0, capacity+1),
	}
}

// Insert places rec at the front and evicts the oldest record once the
// buffer is over capacity.
func (b *Buffer) Insert(rec Record) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records = append(b.records, Record{})
	copy(b.records[1:], b.records)
	b.records[0] = rec
	if len(b.records) > b.capacity {
		b.records = b.records[:len(b.records)-1]
	}
}

// Records returns a newest-first copy of the buffer.
func (b *Buffer) Records() []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

// At returns the record at index i (0 is newest).
func (b *Buffer) At(i int) (Record, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i < 0 || i >= len(b.records) {
		return Record{}, false
	}
	return b.records[i], true
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

func (b *Buffer) Cap() int { return b.capacity }

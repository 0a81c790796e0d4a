// Package streambuf implements the Stream Buffer (spec §4.1): a bounded,
// thread-safe FIFO staging area between the Stream Feeder (single
// producer) and the Join Worker (single consumer).
package streambuf

import (
	"sync"

	"github.com/retailflow/hybridjoin"
)

// Buffer is a FIFO of stream tuples. Pop never blocks; it returns
// (tuple, false) when the buffer is empty. Push blocks only when the
// buffer is bounded and full, giving the Feeder back-pressure instead of
// silently dropping tuples (invariant: no loss under burst, spec §1).
type Buffer struct {
	mu      sync.Mutex
	notFull sync.Cond
	items   []hybridjoin.StreamTuple
	bound   int // 0 means unbounded
	closed  bool
}

// New creates a Buffer. bound <= 0 means unbounded (Push never blocks).
func New(bound int) *Buffer {
	b := &Buffer{bound: bound}
	b.notFull.L = &b.mu
	return b
}

// Push appends tup to the tail of the FIFO. If the buffer is bounded and
// full, Push blocks until a Pop frees a slot or stop unblocks it via
// Close (called from pipeline shutdown so the Feeder doesn't wedge on
// shutdown).
func (b *Buffer) Push(tup hybridjoin.StreamTuple) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.bound > 0 && len(b.items) >= b.bound && !b.closed {
		b.notFull.Wait()
	}
	b.items = append(b.items, tup)
}

// Pop removes and returns the oldest tuple, or (zero, false) if empty.
// Never blocks.
func (b *Buffer) Pop() (hybridjoin.StreamTuple, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return hybridjoin.StreamTuple{}, false
	}
	tup := b.items[0]
	b.items[0] = hybridjoin.StreamTuple{}
	b.items = b.items[1:]
	b.notFull.Signal()
	return tup, true
}

// Size returns the current number of buffered tuples.
func (b *Buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// IsEmpty reports whether the buffer currently holds no tuples.
func (b *Buffer) IsEmpty() bool {
	return b.Size() == 0
}

// Close releases any goroutine blocked in Push so a stop signal can be
// honored even with a full bounded buffer. Safe to call once.
func (b *Buffer) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.notFull.Broadcast()
}

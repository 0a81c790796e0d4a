package sink

import (
	"sync"

	"github.com/retailflow/hybridjoin"
)

// MemorySink accumulates accepted facts in memory, keyed by OrderID for
// idempotent re-accept. Used by scenario tests (spec §8 Scenarios A-F)
// and for small runs where a Badger-backed warehouse is unnecessary.
type MemorySink struct {
	mu   sync.Mutex
	rows map[uint64]hybridjoin.FactRow
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{rows: make(map[uint64]hybridjoin.FactRow)}
}

// Accept stores f, overwriting any prior row with the same OrderID.
func (s *MemorySink) Accept(f hybridjoin.FactRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[f.OrderID] = f
	return nil
}

// Rows returns all accepted facts in no particular order.
func (s *MemorySink) Rows() []hybridjoin.FactRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]hybridjoin.FactRow, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	return out
}

// Len returns the number of distinct OrderIDs accepted.
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// NopSink discards every fact; used for load testing the join loop in
// isolation from sink cost.
type NopSink struct{}

// Accept always succeeds and does nothing.
func (NopSink) Accept(hybridjoin.FactRow) error { return nil }

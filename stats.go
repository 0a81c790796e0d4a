package hybridjoin

import "sync/atomic"

// IngestStats tracks run-wide counters shared between the Feeder and the
// Join Worker. All fields are updated with atomic operations since both
// goroutines (and the CLI summary reader) observe them concurrently.
type IngestStats struct {
	Ingested     atomic.Uint64 // tuples pushed into the Stream Buffer
	ParseSkipped atomic.Uint64 // malformed source rows, skipped (class 2)
	Emitted      atomic.Uint64 // tuples successfully handed to the Sink
	Released     atomic.Uint64 // tuples dropped on a master miss (class 3)
	DeadLettered atomic.Uint64 // tuples dropped after exhausting sink retries (class 4)
}

// Snapshot is a point-in-time, non-atomic copy suitable for reporting.
type Snapshot struct {
	Ingested     uint64
	ParseSkipped uint64
	Emitted      uint64
	Released     uint64
	DeadLettered uint64
}

// Snapshot reads all counters. Individual loads are not mutually
// consistent, which is fine: this is a reporting aid, not an invariant
// check.
func (s *IngestStats) Snapshot() Snapshot {
	return Snapshot{
		Ingested:     s.Ingested.Load(),
		ParseSkipped: s.ParseSkipped.Load(),
		Emitted:      s.Emitted.Load(),
		Released:     s.Released.Load(),
		DeadLettered: s.DeadLettered.Load(),
	}
}

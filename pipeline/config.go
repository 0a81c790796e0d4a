// Package pipeline wires the Stream Feeder and Join Worker goroutines
// together with the shared structures of spec §3-§5 and owns the
// lifecycle (start, graceful stop, wait). Grounded on the teacher's
// cmd/datalog/main.go, which owns the analogous open/close lifecycle
// for its database connection.
package pipeline

import "time"

// Config enumerates the tunables of spec §6.
type Config struct {
	// HashIndexCapacity is hS (default 10000).
	HashIndexCapacity int
	// PartitionSize is vP (default 500).
	PartitionSize int
	// StreamBufferBound bounds the Stream Buffer; 0 means unbounded.
	StreamBufferBound int
	// FeedInterval paces the Stream Feeder (default near-zero).
	FeedInterval time.Duration
	// DrainOnStop, if true, lets the Join Worker finish indexed and
	// buffered tuples before exiting on a stop signal (default true).
	DrainOnStop bool
	// SinkRetries and SinkBackoff configure the Join Worker's sink
	// retry policy (spec §7 class 4).
	SinkRetries int
	SinkBackoff time.Duration
	// YieldInterval is the Join Worker's idle-poll sleep (spec §5).
	YieldInterval time.Duration
}

// DefaultConfig returns the spec's stated defaults (§6).
func DefaultConfig() Config {
	return Config{
		HashIndexCapacity: 10000,
		PartitionSize:     500,
		StreamBufferBound: 0,
		FeedInterval:      0,
		DrainOnStop:       true,
		SinkRetries:       3,
		SinkBackoff:       10 * time.Millisecond,
		YieldInterval:     5 * time.Millisecond,
	}
}

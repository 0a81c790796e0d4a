// Package sink implements the Warehouse Sink (spec §6): the narrow
// interface the HYBRIDJOIN core writes enriched facts through, plus the
// concrete bindings that exercise it.
package sink

import "github.com/retailflow/hybridjoin"

// Sink accepts one enriched fact row at a time. Implementations must be
// idempotent on OrderID or the pipeline assumes at-least-once delivery
// and tolerates duplicates (spec §6). Sink writes are serialized by the
// Join Worker (spec §5); implementations need no internal locking for
// the single-writer case, but must be safe if the caller chooses to
// serialize differently.
type Sink interface {
	Accept(f hybridjoin.FactRow) error
}

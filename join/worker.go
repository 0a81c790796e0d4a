// Package join implements the Join Worker (spec §4.7): the HYBRIDJOIN
// loop itself. This is the core of the whole system (spec §2: "30% of
// core" share, the largest single component).
//
// Grounded directly on the teacher's hashJoinIterator.Next() control
// flow (datalog/executor/join.go), a build/probe/match/emit loop with
// debug counters, and on symmetricHashJoinIterator's batch-driven
// incremental processing of two independently-paced inputs
// (datalog/executor/symmetric_hash_join.go). HYBRIDJOIN specializes
// that shape to one in-memory stream side (the Hash Index) and one
// disk-backed master side (the Disk Buffer), adding the
// oldest-key-first Arrival Queue that the teacher's hash joins don't
// need (their build side is never starved: it's materialized up front).
package join

import (
	"context"
	"errors"
	"time"

	"github.com/retailflow/hybridjoin"
	"github.com/retailflow/hybridjoin/arrivalqueue"
	"github.com/retailflow/hybridjoin/diskbuffer"
	"github.com/retailflow/hybridjoin/hashindex"
	"github.com/retailflow/hybridjoin/sink"
	"github.com/retailflow/hybridjoin/streambuf"
	"github.com/retailflow/hybridjoin/telemetry"
)

// Options configures the Join Worker loop.
type Options struct {
	// YieldInterval is how long the worker sleeps when the Stream
	// Buffer and Arrival Queue are both empty (spec §5: "brief yield,
	// e.g. 1-10ms"). Defaults to 5ms if zero.
	YieldInterval time.Duration

	// SinkRetries is how many times a single tuple's sink write is
	// retried on a transient failure before it is dead-lettered
	// (spec §7 class 4). Defaults to 3 if zero.
	SinkRetries int

	// SinkBackoff is the delay between sink retry attempts. Defaults
	// to 10ms if zero.
	SinkBackoff time.Duration

	// DrainOnStop, when true, keeps the worker processing buffered and
	// indexed tuples after the stop signal fires until both are empty
	// (spec §5, §6 "drain_on_stop"). Unlike the options above it has no
	// fallback: the zero value is false, so callers that want the spec
	// default of true must set it explicitly (see pipeline.DefaultConfig).
	DrainOnStop bool
}

func (o Options) yieldInterval() time.Duration {
	if o.YieldInterval <= 0 {
		return 5 * time.Millisecond
	}
	return o.YieldInterval
}

func (o Options) sinkRetries() int {
	if o.SinkRetries <= 0 {
		return 3
	}
	return o.SinkRetries
}

func (o Options) sinkBackoff() time.Duration {
	if o.SinkBackoff <= 0 {
		return 10 * time.Millisecond
	}
	return o.SinkBackoff
}

// Worker runs the HYBRIDJOIN loop of spec §4.7.
type Worker struct {
	buf           *streambuf.Buffer
	index         *hashindex.Index
	queue         *arrivalqueue.Queue
	customerDisk  *diskbuffer.CustomerBuffer
	productDisk   *diskbuffer.ProductBuffer
	productLookup *diskbuffer.ProductLookup
	sink          sink.Sink
	opts          Options
	log           *telemetry.Logger
	stats         *hybridjoin.IngestStats
}

// New constructs a Worker. log and stats may be nil in tests that don't
// care about telemetry.
func New(
	buf *streambuf.Buffer,
	index *hashindex.Index,
	queue *arrivalqueue.Queue,
	customerDisk *diskbuffer.CustomerBuffer,
	productDisk *diskbuffer.ProductBuffer,
	productLookup *diskbuffer.ProductLookup,
	snk sink.Sink,
	opts Options,
	log *telemetry.Logger,
	stats *hybridjoin.IngestStats,
) *Worker {
	return &Worker{
		buf: buf, index: index, queue: queue,
		customerDisk: customerDisk, productDisk: productDisk, productLookup: productLookup,
		sink: snk, opts: opts, log: log, stats: stats,
	}
}

// Run executes the HYBRIDJOIN loop until ctx is canceled. On a class-5
// invariant violation it returns a non-nil error immediately (spec §7:
// class 5 aborts the process); all other error classes are handled
// internally and never stop the loop.
func (w *Worker) Run(ctx context.Context) error {
	for {
		stopping := ctx.Err() != nil
		if stopping && !w.opts.DrainOnStop {
			return nil
		}
		if stopping && w.buf.IsEmpty() && w.index.Occupancy() == 0 {
			return nil
		}

		w.refill()

		key, ok := w.queue.Dequeue()
		if !ok {
			if stopping {
				// Nothing left to dequeue but the index still holds
				// entries with no queue node, which would violate
				// invariant 1 of spec §3.
				if w.index.Occupancy() != 0 {
					return w.invariantViolation("arrival queue empty but hash index non-empty", nil)
				}
				return nil
			}
			w.sleepYield(ctx)
			continue
		}

		if err := w.probeAndEmit(key); err != nil {
			return err
		}
	}
}

// refill implements spec §4.7 step 1: drain available Hash Index slots
// from the Stream Buffer, enqueueing each inserted key's arrival order.
func (w *Worker) refill() {
	available := w.index.Available()
	for available > 0 {
		tup, ok := w.buf.Pop()
		if !ok {
			break
		}
		w.index.Insert(tup.CustomerID, tup)
		w.queue.Enqueue(tup.CustomerID)
		available--
		if w.log != nil {
			// Per-insert tracing is advisory (spec §9) and stays off the
			// hot path unless -verbose enables debug level.
			w.log.Debug("indexed stream tuple", "order_id", tup.OrderID, "customer_id", tup.CustomerID)
		}
	}
}

// probeAndEmit implements spec §4.7 steps 3-6 for one dequeued key.
func (w *Worker) probeAndEmit(key uint64) error {
	custPartition := w.customerDisk.LoadPartition(key)
	if len(custPartition) == 0 {
		return w.releaseAll(key, telemetry.ClassMasterMiss, "no customer master match")
	}

	var customer hybridjoin.CustomerRow
	found := false
	for _, c := range custPartition {
		if c.CustomerID == key {
			customer = c
			found = true
			break
		}
	}
	if !found {
		// Open question in spec §9, resolved: a non-empty partition
		// with no exact-key row is treated identically to an empty
		// partition, a master miss, not a distinct error class. Our
		// own LoadPartition is equality-based and can't produce this,
		// but the check stays as a documented guard of invariant 4.
		return w.releaseAll(key, telemetry.ClassMasterMiss, "customer partition had no exact key match")
	}

	// Copy the match set: Get aliases internal storage, and we're about
	// to Delete from the same bucket while iterating.
	matches := append([]hybridjoin.StreamTuple(nil), w.index.Get(key)...)

	for _, s := range matches {
		if err := w.emitOne(key, s, customer); err != nil {
			return err
		}
	}
	return nil
}

// emitOne implements spec §4.7 step 5 for a single stream tuple.
func (w *Worker) emitOne(key uint64, s hybridjoin.StreamTuple, customer hybridjoin.CustomerRow) error {
	_ = customer // the customer row establishes the match; the fact itself needs only the product side per spec §3's F shape

	entry, ok := w.resolveProduct(s.ProductID)
	if !ok {
		return w.release(key, s, telemetry.ClassMasterMiss, "no product master match")
	}

	fact := hybridjoin.FactRow{
		OrderID:        s.OrderID,
		CustomerID:     s.CustomerID,
		ProductID:      s.ProductID,
		DateID:         hybridjoin.DateID(s.Date),
		StoreID:        entry.StoreID,
		PurchaseAmount: entry.Price * float64(s.Quantity),
		Quantity:       s.Quantity,
	}

	if err := w.acceptWithRetry(fact); err != nil {
		return w.deadLetter(key, s, err)
	}

	if !w.index.Delete(key, s) {
		return w.invariantViolation("delete after successful sink accept returned false", s)
	}
	if w.stats != nil {
		w.stats.Emitted.Add(1)
	}
	return nil
}

// resolveProduct implements spec §4.7 step 5a: Disk Buffer partition
// first, then the Master Lookup fallback.
func (w *Worker) resolveProduct(productID string) (diskbuffer.LookupEntry, bool) {
	partition := w.productDisk.LoadPartition(productID)
	for _, p := range partition {
		if p.ProductID == productID {
			return diskbuffer.LookupEntry{StoreID: p.StoreID, Price: p.Price}, true
		}
	}
	return w.productLookup.Get(productID)
}

// acceptWithRetry implements spec §7 class 4: retry a transient sink
// failure up to SinkRetries times with a fixed backoff before giving up.
func (w *Worker) acceptWithRetry(fact hybridjoin.FactRow) error {
	var lastErr error
	for attempt := 0; attempt <= w.opts.sinkRetries(); attempt++ {
		if attempt > 0 {
			time.Sleep(w.opts.sinkBackoff())
		}
		if err := w.sink.Accept(fact); err != nil {
			lastErr = err
			if w.log != nil {
				w.log.Tagged(telemetry.ClassSinkWrite, "sink write failed, retrying", "order_id", fact.OrderID, "attempt", attempt, "error", err)
			}
			continue
		}
		return nil
	}
	return lastErr
}

// release drops one stream tuple from the index, freeing its slot,
// without emitting it (spec §7 class 3).
func (w *Worker) release(key uint64, s hybridjoin.StreamTuple, class telemetry.Class, reason string) error {
	if !w.index.Delete(key, s) {
		return w.invariantViolation("release could not find tuple to delete", s)
	}
	if w.stats != nil {
		w.stats.Released.Add(1)
	}
	if w.log != nil {
		w.log.Tagged(class, reason, "order_id", s.OrderID, "customer_id", key, "error", hybridjoin.ErrMasterMiss)
	}
	return nil
}

// releaseAll releases every currently indexed tuple for key (spec §4.7
// step 3: "all index entries for k are unmatched and must be released").
func (w *Worker) releaseAll(key uint64, class telemetry.Class, reason string) error {
	matches := append([]hybridjoin.StreamTuple(nil), w.index.Get(key)...)
	for _, s := range matches {
		if err := w.release(key, s, class, reason); err != nil {
			return err
		}
	}
	return nil
}

// deadLetter drops a tuple whose sink write exhausted its retries
// (spec §7 class 4: "escalate to a dead-letter counter and release the
// tuple").
func (w *Worker) deadLetter(key uint64, s hybridjoin.StreamTuple, cause error) error {
	if !w.index.Delete(key, s) {
		return w.invariantViolation("dead-letter could not find tuple to delete", s)
	}
	if w.stats != nil {
		w.stats.DeadLettered.Add(1)
	}
	if w.log != nil {
		w.log.Tagged(telemetry.ClassSinkWrite, "sink retries exhausted, dead-lettering", "order_id", s.OrderID, "error", cause)
	}
	return nil
}

func (w *Worker) invariantViolation(msg string, tup interface{}) error {
	if w.log != nil {
		w.log.Tagged(telemetry.ClassInvariant, msg, "tuple", tup, "occupancy", w.index.Occupancy(), "queue_len", w.queue.Len())
	}
	return errors.Join(hybridjoin.ErrInvariantViolation, errors.New(msg))
}

func (w *Worker) sleepYield(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.opts.yieldInterval()):
	}
}

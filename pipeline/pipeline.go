package pipeline

import (
	"context"
	"sync"

	"github.com/retailflow/hybridjoin"
	"github.com/retailflow/hybridjoin/arrivalqueue"
	"github.com/retailflow/hybridjoin/diskbuffer"
	"github.com/retailflow/hybridjoin/feeder"
	"github.com/retailflow/hybridjoin/hashindex"
	"github.com/retailflow/hybridjoin/join"
	"github.com/retailflow/hybridjoin/sink"
	"github.com/retailflow/hybridjoin/streambuf"
	"github.com/retailflow/hybridjoin/telemetry"
)

// Pipeline owns the Stream Buffer, Hash Index, Arrival Queue, Disk
// Buffers, Master Lookup, and the Feeder/Worker goroutines built on top
// of them (spec §2 data flow, §5 concurrency model).
type Pipeline struct {
	cfg    Config
	buf    *streambuf.Buffer
	index  *hashindex.Index
	queue  *arrivalqueue.Queue
	feeder *feeder.Feeder
	worker *join.Worker
	stats  *hybridjoin.IngestStats
	log    *telemetry.Logger
}

// New builds a Pipeline. src is the transaction source driving the
// Feeder; customerRows/productRows seed the two Disk Buffers and the
// Master Lookup; snk is the Warehouse Sink. log may be nil to disable
// telemetry (tests typically pass nil or a discard logger).
func New(
	cfg Config,
	src feeder.Source,
	customerRows []hybridjoin.CustomerRow,
	productRows []hybridjoin.ProductRow,
	snk sink.Sink,
	log *telemetry.Logger,
) *Pipeline {
	stats := &hybridjoin.IngestStats{}

	buf := streambuf.New(cfg.StreamBufferBound)
	index := hashindex.New(cfg.HashIndexCapacity)
	queue := arrivalqueue.New()

	customerDisk := diskbuffer.NewCustomerBuffer(customerRows, cfg.PartitionSize)
	productDisk := diskbuffer.NewProductBuffer(productRows, cfg.PartitionSize)
	productLookup := diskbuffer.NewProductLookup(productRows)

	var feederLog, workerLog *telemetry.Logger
	if log != nil {
		feederLog = log.Component("feeder")
		workerLog = log.Component("join-worker")
	}

	f := feeder.New(src, buf, feeder.Options{FeedInterval: cfg.FeedInterval}, feederLog, stats)
	w := join.New(
		buf, index, queue, customerDisk, productDisk, productLookup, snk,
		join.Options{
			YieldInterval: cfg.YieldInterval,
			SinkRetries:   cfg.SinkRetries,
			SinkBackoff:   cfg.SinkBackoff,
			DrainOnStop:   cfg.DrainOnStop,
		},
		workerLog, stats,
	)

	return &Pipeline{cfg: cfg, buf: buf, index: index, queue: queue, feeder: f, worker: w, stats: stats, log: log}
}

// Run starts the Feeder and Join Worker and blocks until both exit.
// The Feeder stops when the transaction source is exhausted or ctx is
// canceled; the Worker keeps polling for work until ctx is canceled and
// (per DrainOnStop) it has finished draining, so an exhausted source
// alone does not end Run. Run returns the Worker's error, which is
// non-nil only on a class-5 invariant violation; the Feeder's return
// value is not reported.
func (p *Pipeline) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	var workerErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = p.feeder.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		workerErr = p.worker.Run(ctx)
		// Unblock a Feeder that might be parked in Push against a full
		// bounded buffer after the Worker exits (e.g. on a class-5
		// invariant violation) so wg.Wait() below can't deadlock.
		p.buf.Close()
	}()
	wg.Wait()

	return workerErr
}

// Stats returns the shared counters. Once Run has returned, ingested =
// emitted + released + dead-lettered + tuples still indexed or buffered.
func (p *Pipeline) Stats() *hybridjoin.IngestStats {
	return p.stats
}

// IndexOccupancy exposes the Hash Index's current occupancy, used by
// tests to check that the index is empty at the end of a run.
func (p *Pipeline) IndexOccupancy() int {
	return p.index.Occupancy()
}

// Package feeder implements the Stream Feeder (spec §4.6): the producer
// goroutine that reads the transaction source in order and pushes
// tuples into the Stream Buffer, pacing itself and observing the
// pipeline's stop signal.
package feeder

import (
	"context"
	"io"
	"time"

	"github.com/retailflow/hybridjoin"
	"github.com/retailflow/hybridjoin/streambuf"
	"github.com/retailflow/hybridjoin/telemetry"
)

// Source is the minimal surface the Feeder needs from a transaction
// reader; source.TransactionReader satisfies it.
type Source interface {
	Next() (hybridjoin.StreamTuple, error)
}

// Options configures Feeder pacing.
type Options struct {
	// FeedInterval paces emission (spec default: near-zero). Zero means
	// no pacing at all.
	FeedInterval time.Duration
}

// Feeder reads src and pushes each parsed tuple into buf until src is
// exhausted or ctx is canceled (spec §5: "Feeder finishes the current
// tuple and exits" on a stop signal).
type Feeder struct {
	src   Source
	buf   *streambuf.Buffer
	opts  Options
	log   *telemetry.Logger
	stats *hybridjoin.IngestStats
}

// New constructs a Feeder. log and stats may be nil in tests that don't
// care about telemetry.
func New(src Source, buf *streambuf.Buffer, opts Options, log *telemetry.Logger, stats *hybridjoin.IngestStats) *Feeder {
	return &Feeder{src: src, buf: buf, opts: opts, log: log, stats: stats}
}

// Run feeds tuples until ctx is canceled or src is exhausted (io.EOF),
// returning nil in both cases: exhaustion and cancellation are both
// ordinary termination, not errors (spec §4.6).
func (f *Feeder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		tup, err := f.src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if f.log != nil {
				f.log.Tagged(telemetry.ClassParse, "skipping malformed transaction row", "error", err)
			}
			if f.stats != nil {
				f.stats.ParseSkipped.Add(1)
			}
			continue
		}

		f.buf.Push(tup)
		if f.stats != nil {
			f.stats.Ingested.Add(1)
		}

		if f.opts.FeedInterval > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(f.opts.FeedInterval):
			}
		}
	}
}

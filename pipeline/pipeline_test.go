package pipeline

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailflow/hybridjoin"
	"github.com/retailflow/hybridjoin/sink"
)

type sliceSource struct {
	tuples []hybridjoin.StreamTuple
	i      int
}

func (s *sliceSource) Next() (hybridjoin.StreamTuple, error) {
	if s.i >= len(s.tuples) {
		return hybridjoin.StreamTuple{}, io.EOF
	}
	tup := s.tuples[s.i]
	s.i++
	return tup, nil
}

func TestPipelineRunEndToEnd(t *testing.T) {
	customers := []hybridjoin.CustomerRow{{CustomerID: 1}, {CustomerID: 2}}
	products := []hybridjoin.ProductRow{{ProductID: "P1", StoreID: 1, Price: 10}}
	src := &sliceSource{tuples: []hybridjoin.StreamTuple{
		{OrderID: 1, CustomerID: 1, ProductID: "P1", Quantity: 2},
		{OrderID: 2, CustomerID: 2, ProductID: "P1", Quantity: 1},
	}}
	snk := sink.NewMemorySink()

	cfg := DefaultConfig()
	cfg.YieldInterval = time.Millisecond
	p := New(cfg, src, customers, products, snk, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// The source is finite (2 tuples); once both are emitted there is no
	// more work, so cancel to let the worker's drain-on-stop exit take
	// the empty-buffer-and-index branch immediately.
	deadline := time.Now().Add(2 * time.Second)
	for snk.Len() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not stop after its finite source was exhausted")
	}

	assert.Equal(t, 2, snk.Len())
	assert.Equal(t, uint64(2), p.Stats().Snapshot().Emitted)
	assert.Equal(t, 0, p.IndexOccupancy())
}

func TestPipelineStopsOnContextCancelWithoutDrain(t *testing.T) {
	customers := []hybridjoin.CustomerRow{{CustomerID: 1}}
	products := []hybridjoin.ProductRow{{ProductID: "P1", StoreID: 1, Price: 10}}
	src := &sliceSource{tuples: make([]hybridjoin.StreamTuple, 10000)}
	for i := range src.tuples {
		src.tuples[i] = hybridjoin.StreamTuple{OrderID: uint64(i), CustomerID: 1, ProductID: "P1", Quantity: 1}
	}
	snk := sink.NewMemorySink()

	cfg := DefaultConfig()
	cfg.DrainOnStop = false
	cfg.FeedInterval = time.Millisecond
	p := New(cfg, src, customers, products, snk, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not stop promptly with drain_on_stop disabled")
	}
}

package feeder

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/retailflow/hybridjoin"
	"github.com/retailflow/hybridjoin/streambuf"
)

type sliceSource struct {
	tuples []hybridjoin.StreamTuple
	errs   []error // errs[i] returned instead of tuples[i] when non-nil
	i      int
}

func (s *sliceSource) Next() (hybridjoin.StreamTuple, error) {
	if s.i >= len(s.tuples) {
		return hybridjoin.StreamTuple{}, io.EOF
	}
	idx := s.i
	s.i++
	if s.errs != nil && s.errs[idx] != nil {
		return hybridjoin.StreamTuple{}, s.errs[idx]
	}
	return s.tuples[idx], nil
}

func TestFeederPushesAllTuplesThenExitsOnEOF(t *testing.T) {
	src := &sliceSource{tuples: []hybridjoin.StreamTuple{{OrderID: 1}, {OrderID: 2}, {OrderID: 3}}}
	buf := streambuf.New(0)
	stats := &hybridjoin.IngestStats{}
	f := New(src, buf, Options{}, nil, stats)

	err := f.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), stats.Snapshot().Ingested)
	assert.Equal(t, 3, buf.Size())
}

func TestFeederSkipsParseErrorsAndContinues(t *testing.T) {
	src := &sliceSource{
		tuples: []hybridjoin.StreamTuple{{OrderID: 1}, {}, {OrderID: 3}},
		errs:   []error{nil, assert.AnError, nil},
	}
	buf := streambuf.New(0)
	stats := &hybridjoin.IngestStats{}
	f := New(src, buf, Options{}, nil, stats)

	err := f.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), stats.Snapshot().Ingested)
	assert.Equal(t, uint64(1), stats.Snapshot().ParseSkipped)
}

func TestFeederStopsOnContextCancel(t *testing.T) {
	src := &sliceSource{tuples: make([]hybridjoin.StreamTuple, 1000)}
	buf := streambuf.New(0)
	stats := &hybridjoin.IngestStats{}
	f := New(src, buf, Options{FeedInterval: 50 * time.Millisecond}, nil, stats)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- f.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("feeder did not exit promptly after context cancellation")
	}
}

package hashindex

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retailflow/hybridjoin"
)

func TestIndexInsertGetDelete(t *testing.T) {
	idx := New(10)
	assert.Equal(t, 10, idx.Available())

	idx.Insert(42, hybridjoin.StreamTuple{OrderID: 1, CustomerID: 42})
	assert.Equal(t, 9, idx.Available())
	assert.Equal(t, 1, idx.Occupancy())

	got := idx.Get(42)
	assert.Len(t, got, 1)
	assert.Equal(t, uint64(1), got[0].OrderID)

	ok := idx.Delete(42, hybridjoin.StreamTuple{OrderID: 1, CustomerID: 42})
	assert.True(t, ok)
	assert.Equal(t, 10, idx.Available())
	assert.Empty(t, idx.Get(42))
}

func TestIndexDeleteMissingReturnsFalse(t *testing.T) {
	idx := New(10)
	ok := idx.Delete(1, hybridjoin.StreamTuple{OrderID: 999})
	assert.False(t, ok)
}

// Duplicate customer_id keys form a multi-value bucket (spec invariant 3 /
// Scenario B): two tuples queued under the same key must both be retained
// and independently deletable.
func TestIndexMultiMapDuplicateKey(t *testing.T) {
	idx := New(10)
	idx.Insert(7, hybridjoin.StreamTuple{OrderID: 1, CustomerID: 7})
	idx.Insert(7, hybridjoin.StreamTuple{OrderID: 2, CustomerID: 7})
	assert.Len(t, idx.Get(7), 2)
	assert.Equal(t, 2, idx.Occupancy())

	assert.True(t, idx.Delete(7, hybridjoin.StreamTuple{OrderID: 1, CustomerID: 7}))
	remaining := idx.Get(7)
	assert.Len(t, remaining, 1)
	assert.Equal(t, uint64(2), remaining[0].OrderID)

	assert.True(t, idx.Delete(7, hybridjoin.StreamTuple{OrderID: 2, CustomerID: 7}))
	assert.Empty(t, idx.Get(7))
	assert.Equal(t, 10, idx.Available())
}

func TestIndexTotalEntriesMonotonic(t *testing.T) {
	idx := New(10)
	idx.Insert(1, hybridjoin.StreamTuple{OrderID: 1})
	idx.Insert(1, hybridjoin.StreamTuple{OrderID: 2})
	idx.Delete(1, hybridjoin.StreamTuple{OrderID: 1})
	assert.Equal(t, uint64(2), idx.TotalEntries())
}

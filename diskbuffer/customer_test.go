package diskbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retailflow/hybridjoin"
)

func makeCustomers(ids ...uint64) []hybridjoin.CustomerRow {
	rows := make([]hybridjoin.CustomerRow, len(ids))
	for i, id := range ids {
		rows[i] = hybridjoin.CustomerRow{CustomerID: id, Gender: "F"}
	}
	return rows
}

func TestCustomerBufferLoadPartitionExactMatch(t *testing.T) {
	rows := makeCustomers(5, 3, 1, 4, 2)
	b := NewCustomerBuffer(rows, 10)
	assert.Equal(t, 5, b.Len())

	partition := b.LoadPartition(3)
	found := false
	for _, r := range partition {
		if r.CustomerID == 3 {
			found = true
		}
	}
	assert.True(t, found)
	// partitionSize exceeds the relation size, so the whole thing comes back.
	assert.Len(t, partition, 5)
}

func TestCustomerBufferLoadPartitionMiss(t *testing.T) {
	rows := makeCustomers(1, 2, 3)
	b := NewCustomerBuffer(rows, 10)
	assert.Empty(t, b.LoadPartition(999))
}

func TestCustomerBufferPartitionWindowBounded(t *testing.T) {
	ids := make([]uint64, 100)
	for i := range ids {
		ids[i] = uint64(i)
	}
	b := NewCustomerBuffer(makeCustomers(ids...), 10)

	partition := b.LoadPartition(50)
	assert.Len(t, partition, 10)
	contains := false
	for _, r := range partition {
		if r.CustomerID == 50 {
			contains = true
		}
	}
	assert.True(t, contains)
}

func TestCustomerBufferDuplicateKeyMatchesAllRows(t *testing.T) {
	rows := makeCustomers(1, 2, 2, 2, 3)
	b := NewCustomerBuffer(rows, 3)
	partition := b.LoadPartition(2)
	count := 0
	for _, r := range partition {
		if r.CustomerID == 2 {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

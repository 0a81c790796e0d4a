package diskbuffer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retailflow/hybridjoin"
)

func TestProductBufferLoadPartitionExactMatch(t *testing.T) {
	rows := []hybridjoin.ProductRow{
		{ProductID: "P003", Price: 3},
		{ProductID: "P001", Price: 1},
		{ProductID: "P002", Price: 2},
	}
	b := NewProductBuffer(rows, 10)

	partition := b.LoadPartition("P002")
	found := false
	for _, r := range partition {
		if r.ProductID == "P002" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestProductBufferLoadPartitionMiss(t *testing.T) {
	b := NewProductBuffer([]hybridjoin.ProductRow{{ProductID: "P001"}}, 10)
	assert.Empty(t, b.LoadPartition("nope"))
}

// Scenario E (spec §8): a pathological relation where hundreds of rows
// share one ProductID must still return exactly partitionSize rows.
func TestProductBufferOversizeKeyTruncates(t *testing.T) {
	rows := make([]hybridjoin.ProductRow, 0, 800)
	for i := 0; i < 800; i++ {
		rows = append(rows, hybridjoin.ProductRow{ProductID: "PDUP", Price: float64(i)})
	}
	b := NewProductBuffer(rows, 500)

	partition := b.LoadPartition("PDUP")
	assert.Len(t, partition, 500)
	for _, r := range partition {
		assert.Equal(t, "PDUP", r.ProductID)
	}
}

func TestProductBufferSortsByProductID(t *testing.T) {
	var rows []hybridjoin.ProductRow
	for i := 20; i >= 1; i-- {
		rows = append(rows, hybridjoin.ProductRow{ProductID: fmt.Sprintf("P%03d", i)})
	}
	b := NewProductBuffer(rows, 5)
	for i := 1; i <= 20; i++ {
		want := fmt.Sprintf("P%03d", i)
		partition := b.LoadPartition(want)
		assert.NotEmpty(t, partition, "expected a match for %s", want)
	}
}

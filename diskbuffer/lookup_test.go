package diskbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retailflow/hybridjoin"
)

func TestProductLookupGet(t *testing.T) {
	rows := []hybridjoin.ProductRow{
		{ProductID: "P001", StoreID: 7, Price: 9.99},
		{ProductID: "P002", StoreID: 3, Price: 14.5},
	}
	l := NewProductLookup(rows)

	entry, ok := l.Get("P001")
	assert.True(t, ok)
	assert.Equal(t, uint32(7), entry.StoreID)
	assert.InDelta(t, 9.99, entry.Price, 0.0001)

	_, ok = l.Get("missing")
	assert.False(t, ok)
}

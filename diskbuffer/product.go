package diskbuffer

import (
	"sort"

	"github.com/retailflow/hybridjoin"
)

// ProductBuffer is the product-relation analogue of CustomerBuffer,
// keyed on the string ProductID. Kept as a distinct type (rather than a
// generic Buffer[K, V]) because the two relations differ in row shape
// and the windowing logic is the only shared piece; see window.go.
type ProductBuffer struct {
	rows          []hybridjoin.ProductRow
	partitionSize int
}

// NewProductBuffer sorts rows by ProductID and records partitionSize.
func NewProductBuffer(rows []hybridjoin.ProductRow, partitionSize int) *ProductBuffer {
	sort.Slice(rows, func(i, j int) bool { return rows[i].ProductID < rows[j].ProductID })
	return &ProductBuffer{rows: rows, partitionSize: partitionSize}
}

// LoadPartition returns the partition of up to partitionSize rows
// surrounding the first row matching key. An empty result means no
// match was found on the disk side; the caller falls back to the
// Master Lookup (spec §4.7 step 5a) before declaring a miss.
//
// Scenario E (spec §8) exercises the oversize-key truncation branch: a
// pathological relation with hundreds of rows sharing one ProductID
// still returns exactly partitionSize rows, never crashing.
func (b *ProductBuffer) LoadPartition(key string) []hybridjoin.ProductRow {
	lo := sort.Search(len(b.rows), func(i int) bool { return b.rows[i].ProductID >= key })
	if lo == len(b.rows) || b.rows[lo].ProductID != key {
		return nil
	}
	hi := lo + 1
	for hi < len(b.rows) && b.rows[hi].ProductID == key {
		hi++
	}

	matchLen := hi - lo
	if matchLen > b.partitionSize {
		out := make([]hybridjoin.ProductRow, b.partitionSize)
		copy(out, b.rows[lo:lo+b.partitionSize])
		return out
	}

	start, end := window(lo, hi, len(b.rows), b.partitionSize)
	out := make([]hybridjoin.ProductRow, end-start)
	copy(out, b.rows[start:end])
	return out
}

// Len returns the number of resident rows.
func (b *ProductBuffer) Len() int {
	return len(b.rows)
}

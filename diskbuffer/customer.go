package diskbuffer

import (
	"sort"

	"github.com/retailflow/hybridjoin"
)

// CustomerBuffer loads the customer master relation into memory, sorted
// ascending by CustomerID, and serves partition-windowed lookups keyed
// on that column (spec §4.4).
type CustomerBuffer struct {
	rows          []hybridjoin.CustomerRow
	partitionSize int
}

// NewCustomerBuffer sorts rows by CustomerID and records partitionSize
// (spec default vP = 500). rows is retained and must not be mutated by
// the caller afterward.
func NewCustomerBuffer(rows []hybridjoin.CustomerRow, partitionSize int) *CustomerBuffer {
	sort.Slice(rows, func(i, j int) bool { return rows[i].CustomerID < rows[j].CustomerID })
	return &CustomerBuffer{rows: rows, partitionSize: partitionSize}
}

// LoadPartition returns the partition of up to partitionSize rows
// surrounding the first row matching key, per spec §4.4 steps 1-4. An
// empty result means key has no master match (a class-3 master miss).
func (b *CustomerBuffer) LoadPartition(key uint64) []hybridjoin.CustomerRow {
	lo := sort.Search(len(b.rows), func(i int) bool { return b.rows[i].CustomerID >= key })
	if lo == len(b.rows) || b.rows[lo].CustomerID != key {
		return nil
	}
	hi := lo + 1
	for hi < len(b.rows) && b.rows[hi].CustomerID == key {
		hi++
	}

	matchLen := hi - lo
	if matchLen > b.partitionSize {
		out := make([]hybridjoin.CustomerRow, b.partitionSize)
		copy(out, b.rows[lo:lo+b.partitionSize])
		return out
	}

	start, end := window(lo, hi, len(b.rows), b.partitionSize)
	out := make([]hybridjoin.CustomerRow, end-start)
	copy(out, b.rows[start:end])
	return out
}

// Len returns the number of resident rows, for diagnostics/tests.
func (b *CustomerBuffer) Len() int {
	return len(b.rows)
}

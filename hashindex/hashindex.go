// Package hashindex implements the Hash Index (spec §4.2): a
// fixed-capacity multi-map from customer_id to the stream tuples
// currently queued for that key. It is consumer-only (the Join Worker
// is its sole caller) so, per spec §5, it needs no internal lock.
//
// This specializes the teacher's generic, interning-aware TupleKeyMap
// (datalog/executor/tuple_key.go) to a plain uint64 key: HYBRIDJOIN
// always joins on customer_id, so there is no need for the teacher's
// FNV-hash-of-interned-values machinery. A native Go map keyed
// directly on uint64 is both simpler and faster here.
package hashindex

import "github.com/retailflow/hybridjoin"

// Index is a capacity-bounded multi-map keyed by customer_id.
type Index struct {
	capacity  int
	available int
	buckets   map[uint64][]hybridjoin.StreamTuple
	entries   uint64 // total_entries, monotonic debug counter
}

// New creates an Index with the given slot capacity (spec default hS =
// 10000).
func New(capacity int) *Index {
	return &Index{
		capacity:  capacity,
		available: capacity,
		buckets:   make(map[uint64][]hybridjoin.StreamTuple),
	}
}

// Insert appends tup to the bucket for key and consumes one slot. The
// caller must check Available() > 0 first; Insert does not itself
// reject an over-capacity insert (the Join Worker's refill phase is the
// single gate, per spec §4.7 step 1).
func (idx *Index) Insert(key uint64, tup hybridjoin.StreamTuple) {
	idx.buckets[key] = append(idx.buckets[key], tup)
	idx.available--
	idx.entries++
}

// Get returns every stream tuple currently stored for key, in insertion
// (source arrival) order. It never mutates the index. The returned
// slice aliases internal storage and must not be retained across a
// Delete call.
func (idx *Index) Get(key uint64) []hybridjoin.StreamTuple {
	return idx.buckets[key]
}

// Delete removes the first bucket entry equal to tup (by OrderID, which
// uniquely identifies a stream tuple), freeing its slot. Reports
// whether a matching entry was found.
func (idx *Index) Delete(key uint64, tup hybridjoin.StreamTuple) bool {
	bucket := idx.buckets[key]
	for i, candidate := range bucket {
		if candidate.OrderID == tup.OrderID {
			bucket = append(bucket[:i], bucket[i+1:]...)
			if len(bucket) == 0 {
				delete(idx.buckets, key)
			} else {
				idx.buckets[key] = bucket
			}
			idx.available++
			return true
		}
	}
	return false
}

// Available returns the current free-slot count.
func (idx *Index) Available() int {
	return idx.available
}

// Capacity returns the fixed slot capacity hS.
func (idx *Index) Capacity() int {
	return idx.capacity
}

// Occupancy returns the number of slots currently in use (capacity -
// available), used by tests to check slot accounting.
func (idx *Index) Occupancy() int {
	return idx.capacity - idx.available
}

// TotalEntries returns the lifetime count of successful Insert calls,
// for metrics/debugging (spec §4.2).
func (idx *Index) TotalEntries() uint64 {
	return idx.entries
}

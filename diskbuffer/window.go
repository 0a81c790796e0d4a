// Package diskbuffer implements the Disk Buffer (spec §4.4) and the
// Master Lookup (spec §4.5): windowed, sorted-relation partition
// loading for the customer and product master relations.
//
// Grounded on the teacher's sorted-range reasoning for binding-relation
// joins (datalog/storage/hash_join_scan_range_test.go,
// datalog/storage/merge_join_test.go), adapted from on-disk Badger range
// scans to an in-memory sorted slice: the whole relation is small enough
// (a slowly-changing master table) to hold resident, so the "disk" here
// is modeled as a flat, pre-sorted slice and the only thing actually
// windowed is the partition handed back to the Join Worker.
package diskbuffer

// window computes the [start, end) slice bounds for a partition of size
// partitionSize, centered symmetrically on the block of matching rows
// [matchStart, matchEnd), clipped to [0, total). This is the symmetric-
// expansion rule mandated by spec §4.4 step 3 and §9 (never the
// asymmetric "no left-expansion" variant).
//
// When the match count itself exceeds partitionSize, the caller is
// expected to return only the first partitionSize matches directly
// (spec §4.4 step 4); window is not used for that branch.
func window(matchStart, matchEnd, total, partitionSize int) (start, end int) {
	matchLen := matchEnd - matchStart
	if matchLen >= partitionSize {
		return matchStart, matchStart + partitionSize
	}

	slack := partitionSize - matchLen
	left := slack / 2
	right := slack - left

	start = matchStart - left
	end = matchEnd + right

	if start < 0 {
		end += -start
		start = 0
	}
	if end > total {
		start -= end - total
		end = total
	}
	if start < 0 {
		start = 0
	}
	if end > total {
		end = total
	}
	return start, end
}

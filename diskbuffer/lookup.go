package diskbuffer

import "github.com/retailflow/hybridjoin"

// LookupEntry is the (store_id, price) projection the Master Lookup
// holds per product_id (spec §4.5).
type LookupEntry struct {
	StoreID uint32
	Price   float64
}

// ProductLookup is a read-only, in-memory dictionary built once at
// startup from the product master, used to enrich when the product
// Disk Buffer partition misses. Product IDs are hashed-string keys
// whose sorted-partition locality is weaker than the customer side's,
// per spec §4.5.
type ProductLookup struct {
	byID map[string]LookupEntry
}

// NewProductLookup builds the lookup from the full product relation.
// Insertion happens once; the result is read-only thereafter.
func NewProductLookup(rows []hybridjoin.ProductRow) *ProductLookup {
	m := make(map[string]LookupEntry, len(rows))
	for _, r := range rows {
		m[r.ProductID] = LookupEntry{StoreID: r.StoreID, Price: r.Price}
	}
	return &ProductLookup{byID: m}
}

// Get returns the (store_id, price) projection for productID, or
// (zero, false) if the product master has no such row.
func (l *ProductLookup) Get(productID string) (LookupEntry, bool) {
	e, ok := l.byID[productID]
	return e, ok
}

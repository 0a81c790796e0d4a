// Package hybridjoin defines the shared data model for the retail ETL
// pipeline: the stream tuple enriched by HYBRIDJOIN, the two master-relation
// row shapes it joins against, and the fact row it emits to the warehouse.
package hybridjoin

import "time"

// StreamTuple is one inbound transaction from the transaction source.
// Immutable after arrival.
type StreamTuple struct {
	OrderID    uint64
	CustomerID uint64
	ProductID  string
	Quantity   uint32
	Date       time.Time
}

// CustomerRow is a row of the customer master relation, sorted by
// CustomerID at load time.
type CustomerRow struct {
	CustomerID    uint64
	Gender        string
	AgeBucket     string
	Occupation    uint32
	CityCategory  string
	YearsInCity   string
	MaritalStatus string
}

// ProductRow is a row of the product master relation.
type ProductRow struct {
	ProductID    string
	Category     string
	Name         string
	SupplierID   uint32
	SupplierName string
	StoreID      uint32
	Price        float64
}

// FactRow is a fully joined, enriched fact destined for the warehouse.
// Derived; never mutated after construction.
type FactRow struct {
	OrderID        uint64
	CustomerID     uint64
	ProductID      string
	DateID         uint32 // yyyymmdd
	StoreID        uint32
	PurchaseAmount float64
	Quantity       uint32
}

// DateID converts a date into the yyyymmdd integer form used by FactRow
// and by the DimDate warehouse dimension.
func DateID(t time.Time) uint32 {
	return uint32(t.Year())*10000 + uint32(t.Month())*100 + uint32(t.Day())
}

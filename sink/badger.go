package sink

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dgraph-io/badger/v4"

	"github.com/retailflow/hybridjoin"
)

// BadgerSink persists enriched facts into a github.com/dgraph-io/badger/v4
// store, holding part of the star schema of spec §6 as key-prefixed
// buckets in one embedded KV store: FactSales (written by Accept) and the
// DimCustomer and DimProduct dimensions (written by AssertDimCustomer and
// AssertDimProduct). Accept does not write dimension rows, and there are
// no DimStore, DimSupplier or DimDate buckets. Grounded on the teacher's BadgerStore
// (datalog/storage/badger_store.go: db.Update/db.View transaction
// wrapping, fmt.Errorf %w error wrapping), reused here as the domain's
// own warehouse sink rather than the teacher's datom index.
//
// Keying FactSales by order_id makes writes idempotent (spec §6: "the
// sink must be idempotent on (order_id)").
type BadgerSink struct {
	db *badger.DB
}

// OpenBadgerSink opens (creating if absent) a Badger store at path.
func OpenBadgerSink(path string) (*BadgerSink, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // the pipeline's own telemetry logger covers this

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening warehouse sink at %s: %w", path, err)
	}
	return &BadgerSink{db: db}, nil
}

// Close releases the underlying Badger store.
func (s *BadgerSink) Close() error {
	return s.db.Close()
}

const (
	prefixFactSales   = "FactSales:"
	prefixDimCustomer = "DimCustomer:"
	prefixDimProduct  = "DimProduct:"
)

// Accept writes f into the FactSales bucket under its order_id,
// overwriting any prior write for the same key (idempotent, at-least-
// once semantics per spec §6).
func (s *BadgerSink) Accept(f hybridjoin.FactRow) error {
	key := []byte(fmt.Sprintf("%s%020d", prefixFactSales, f.OrderID))
	val := encodeFact(f)

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// AssertDimCustomer upserts a DimCustomer row, called by the dimension
// seeding step this core treats as an external collaborator (spec §1);
// exposed here so that collaborator can share the same warehouse store.
func (s *BadgerSink) AssertDimCustomer(row hybridjoin.CustomerRow) error {
	key := []byte(fmt.Sprintf("%s%020d", prefixDimCustomer, row.CustomerID))
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, encodeCustomer(row))
	})
}

// AssertDimProduct upserts a DimProduct row.
func (s *BadgerSink) AssertDimProduct(row hybridjoin.ProductRow) error {
	key := []byte(prefixDimProduct + row.ProductID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, encodeProduct(row))
	})
}

// FactCount scans the FactSales bucket and returns how many distinct
// order_ids have been persisted, used by tests.
func (s *BadgerSink) FactCount() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixFactSales)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// encodeFact serializes a FactRow as a fixed-layout byte record: two
// uint64 and two uint32 fields, a float64, a uint32 quantity, and the
// variable-length ProductID trailing. Mirrors the teacher's StorageDatom.Bytes() fixed-then-
// variable layout (datalog/storage/types.go).
func encodeFact(f hybridjoin.FactRow) []byte {
	buf := make([]byte, 8+8+4+4+8+4+len(f.ProductID))
	binary.BigEndian.PutUint64(buf[0:8], f.OrderID)
	binary.BigEndian.PutUint64(buf[8:16], f.CustomerID)
	binary.BigEndian.PutUint32(buf[16:20], f.DateID)
	binary.BigEndian.PutUint32(buf[20:24], f.StoreID)
	binary.BigEndian.PutUint64(buf[24:32], math.Float64bits(f.PurchaseAmount))
	binary.BigEndian.PutUint32(buf[32:36], f.Quantity)
	copy(buf[36:], f.ProductID)
	return buf
}

func encodeCustomer(c hybridjoin.CustomerRow) []byte {
	return []byte(fmt.Sprintf("%s|%s|%d|%s|%s|%s", c.Gender, c.AgeBucket, c.Occupation, c.CityCategory, c.YearsInCity, c.MaritalStatus))
}

func encodeProduct(p hybridjoin.ProductRow) []byte {
	return []byte(fmt.Sprintf("%s|%s|%d|%s|%d|%f", p.Category, p.Name, p.SupplierID, p.SupplierName, p.StoreID, p.Price))
}

package source

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/retailflow/hybridjoin"
)

// TransactionReader streams rows from the transaction source in file
// order, coercing each into a hybridjoin.StreamTuple (spec §4.6,
// §6). It is read sequentially by the Stream Feeder; ParseError rows are
// a class-2 condition (skip and continue), never fatal.
type TransactionReader struct {
	r   *csv.Reader
	col transactionColumns
}

type transactionColumns struct {
	orderID, customerID, productID, quantity, date int
}

// ParseError wraps a malformed transaction row. The Feeder logs it at
// telemetry.ClassParse and skips the row; it must never abort the run.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("transaction row %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewTransactionReader reads and validates the header line, expecting
// the columns of spec §6: order_id, customer_id, product_id, quantity, date.
func NewTransactionReader(r io.Reader) (*TransactionReader, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading transaction header: %w", err)
	}

	col := transactionColumns{
		orderID:    indexOf(header, "order_id"),
		customerID: indexOf(header, "customer_id"),
		productID:  indexOf(header, "product_id"),
		quantity:   indexOf(header, "quantity"),
		date:       indexOf(header, "date"),
	}
	for name, idx := range map[string]int{
		"order_id": col.orderID, "customer_id": col.customerID,
		"product_id": col.productID, "quantity": col.quantity, "date": col.date,
	} {
		if idx < 0 {
			return nil, fmt.Errorf("transaction header missing column %q", name)
		}
	}

	return &TransactionReader{r: cr, col: col}, nil
}

// Next returns the next StreamTuple, io.EOF when the source is
// exhausted, or a *ParseError for a malformed row (the caller should log
// it and call Next again to keep reading).
func (t *TransactionReader) Next() (hybridjoin.StreamTuple, error) {
	line, err := t.r.Read()
	if err == io.EOF {
		return hybridjoin.StreamTuple{}, io.EOF
	}
	if err != nil {
		pe := &ParseError{Err: err}
		if csvErr, ok := err.(*csv.ParseError); ok {
			pe.Line = csvErr.StartLine
		}
		return hybridjoin.StreamTuple{}, pe
	}
	lineNo, _ := t.r.FieldPos(0)

	orderID, err := parseUint64(line[t.col.orderID])
	if err != nil {
		return hybridjoin.StreamTuple{}, &ParseError{Line: lineNo, Err: fmt.Errorf("order_id: %w", err)}
	}
	customerID, err := parseUint64(line[t.col.customerID])
	if err != nil {
		return hybridjoin.StreamTuple{}, &ParseError{Line: lineNo, Err: fmt.Errorf("customer_id: %w", err)}
	}
	quantity, err := parseUint32(line[t.col.quantity])
	if err != nil {
		return hybridjoin.StreamTuple{}, &ParseError{Line: lineNo, Err: fmt.Errorf("quantity: %w", err)}
	}
	date, err := parseDate(line[t.col.date])
	if err != nil {
		return hybridjoin.StreamTuple{}, &ParseError{Line: lineNo, Err: fmt.Errorf("date: %w", err)}
	}

	return hybridjoin.StreamTuple{
		OrderID:    orderID,
		CustomerID: customerID,
		ProductID:  line[t.col.productID],
		Quantity:   quantity,
		Date:       date,
	}, nil
}

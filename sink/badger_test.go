package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailflow/hybridjoin"
)

func TestBadgerSinkAcceptAndFactCount(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenBadgerSink(dir)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Accept(hybridjoin.FactRow{OrderID: 1, CustomerID: 10, ProductID: "P1", Quantity: 2, PurchaseAmount: 19.98}))
	require.NoError(t, s.Accept(hybridjoin.FactRow{OrderID: 2, CustomerID: 11, ProductID: "P2", Quantity: 1, PurchaseAmount: 5}))

	count, err := s.FactCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestBadgerSinkAcceptIsIdempotentOnOrderID(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenBadgerSink(dir)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Accept(hybridjoin.FactRow{OrderID: 1, Quantity: 1}))
	require.NoError(t, s.Accept(hybridjoin.FactRow{OrderID: 1, Quantity: 2}))

	count, err := s.FactCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBadgerSinkAssertDimensions(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenBadgerSink(dir)
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.AssertDimCustomer(hybridjoin.CustomerRow{CustomerID: 1, Gender: "M"}))
	assert.NoError(t, s.AssertDimProduct(hybridjoin.ProductRow{ProductID: "P1", Category: "widgets"}))
}

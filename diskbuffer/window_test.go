package diskbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowSymmetricExpansion(t *testing.T) {
	// Match at [10, 11) in a 100-row relation, partitionSize 10: slack is
	// 9, split 4/5, so the window should expand on both sides, not just
	// to the right (the redesign flag's symmetric-not-asymmetric rule).
	start, end := window(10, 11, 100, 10)
	assert.Equal(t, 6, start)
	assert.Equal(t, 16, end)
}

func TestWindowClipsAtLeftEdge(t *testing.T) {
	start, end := window(0, 2, 100, 10)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)
}

func TestWindowClipsAtRightEdge(t *testing.T) {
	start, end := window(97, 100, 100, 10)
	assert.Equal(t, 90, start)
	assert.Equal(t, 100, end)
}

func TestWindowMatchFillsEntireRelation(t *testing.T) {
	start, end := window(0, 5, 5, 10)
	assert.Equal(t, 0, start)
	assert.Equal(t, 5, end)
}

func TestWindowOversizeMatchReturnsFirstPartitionSize(t *testing.T) {
	start, end := window(10, 30, 100, 5)
	assert.Equal(t, 10, start)
	assert.Equal(t, 15, end)
}

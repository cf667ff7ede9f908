package sfcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintFloat2DArray(t *testing.T) {
	out := PrintFloat2DArray([][]float64{{1.0, 0.5}, {0.0, 0.25}})
	assert.Equal(t, "1.0000,0.5000,\n0.0000,0.2500,\n", out)
}

func TestGetSortedIndexesAsc(t *testing.T) {
	assert.Equal(t, []int{2, 0, 1}, GetSortedIndexesAsc([]float64{0.5, 0.9, 0.1}))
}

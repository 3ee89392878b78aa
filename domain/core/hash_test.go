package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestNewHash(t *testing.T) {
	h := NewHash([]byte("edakit"))
	assert.Len(t, h.String(), 64)
	assert.Equal(t, h, NewHash([]byte("edakit")))
	assert.Len(t, h.Short(), 12)
	assert.True(t, Hash("").IsEmpty())
}

func TestDatasetHash(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	y := []float64{0, 1}

	base := DatasetHash(x, y)
	assert.Equal(t, base, DatasetHash(mat.DenseCopyOf(x), []float64{0, 1}))
	assert.NotEqual(t, base, DatasetHash(x, []float64{1, 0}))
	assert.NotEqual(t, base, DatasetHash(mat.NewDense(1, 4, []float64{1, 2, 3, 4}), y), "shape is part of the fingerprint")
	assert.NotEqual(t, base, DatasetHash(x.T(), y))
}

package separability

import (
	"math"
	"testing"

	"edakit/domain/core"
	"edakit/domain/screening"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// labelsBy builds labels for x = 0..n-1.
func labelsBy(n int, f func(i int) bool) []float64 {
	y := make([]float64, n)
	for i := range y {
		if f(i) {
			y[i] = 1
		}
	}
	return y
}

func TestExternalTest_DecisionTable(t *testing.T) {
	x := seq(40)

	tests := []struct {
		name      string
		y         []float64
		separable bool
		want      screening.Descriptor
	}{
		{
			name:      "perfectly correlated",
			y:         labelsBy(40, func(i int) bool { return i >= 20 }),
			separable: true,
			want:      screening.Descriptor{Left: screening.ClassZero, Right: screening.ClassOne},
		},
		{
			name:      "anti correlated",
			y:         labelsBy(40, func(i int) bool { return i < 20 }),
			separable: true,
			want:      screening.Descriptor{Left: screening.ClassOne, Right: screening.ClassZero},
		},
		{
			name:      "left tail only",
			y:         labelsBy(40, func(i int) bool { return i >= 10 && i%2 == 0 }),
			separable: true,
			want:      screening.Descriptor{Left: screening.ClassZero, Right: screening.ClassNone},
		},
		{
			name:      "right tail only",
			y:         labelsBy(40, func(i int) bool { return i >= 30 || (i < 10 && i%2 == 0) }),
			separable: true,
			want:      screening.Descriptor{Left: screening.ClassNone, Right: screening.ClassOne},
		},
		{
			name:      "both tails same class",
			y:         labelsBy(40, func(i int) bool { return i < 10 || i >= 30 }),
			separable: false,
			want:      screening.Descriptor{Left: screening.ClassOne, Right: screening.ClassOne},
		},
		{
			name:      "no dominated tail",
			y:         labelsBy(40, func(i int) bool { return i%2 == 0 }),
			separable: false,
			want:      screening.Descriptor{Left: screening.ClassNone, Right: screening.ClassNone},
		},
	}

	test := NewExternalTest(screening.DefaultPolicy())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := test.Test(x, tt.y)
			require.NoError(t, err)
			assert.Equal(t, tt.separable, v.Separable)
			assert.Equal(t, tt.want, v.Descriptor)
			assert.False(t, v.Fallback)
		})
	}
}

func TestExternalTest_SingleClassIsRejected(t *testing.T) {
	x := seq(20)
	for _, label := range []float64{0, 1} {
		y := make([]float64, len(x))
		for i := range y {
			y[i] = label
		}
		_, _, err := IsExternallySeparable(x, y)
		assert.ErrorIs(t, err, core.ErrEmptyClass)
	}
}

func TestExternalTest_InputContract(t *testing.T) {
	_, _, err := IsExternallySeparable(seq(4), []float64{0, 1, 0})
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)

	_, _, err = IsExternallySeparable(seq(3), []float64{0, 1, 2})
	assert.ErrorIs(t, err, core.ErrNonBinaryLabel)

	_, _, err = IsExternallySeparable(nil, nil)
	assert.ErrorIs(t, err, core.ErrEmptyInput)
}

func TestExternalTest_EmptyTailFallsBack(t *testing.T) {
	// a NaN at the lowest rank poisons the interpolated lower quartile
	x := []float64{math.NaN(), 1, 2, 3}
	y := []float64{0, 0, 1, 1}

	v, err := NewExternalTest(screening.DefaultPolicy()).Test(x, y)
	require.ErrorIs(t, err, core.ErrEmptyTail)
	assert.False(t, v.Separable)
	assert.True(t, v.Fallback)
	assert.Equal(t, screening.Descriptor{Left: screening.ClassNone, Right: screening.ClassNone}, v.Descriptor)
}

func TestExternalTest_CutoffFromPolicy(t *testing.T) {
	x := seq(40)
	// left tail is 80% class 0
	y := labelsBy(40, func(i int) bool { return i >= 20 || i == 0 || i == 5 })

	strict := screening.DefaultPolicy()
	strict.Cutoff = 0.9
	v, err := NewExternalTest(strict).Test(x, y)
	require.NoError(t, err)
	assert.Equal(t, screening.Descriptor{Left: screening.ClassNone, Right: screening.ClassOne}, v.Descriptor)

	v, err = NewExternalTest(screening.DefaultPolicy()).Test(x, y)
	require.NoError(t, err)
	assert.Equal(t, screening.Descriptor{Left: screening.ClassZero, Right: screening.ClassOne}, v.Descriptor)
}

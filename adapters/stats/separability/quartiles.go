package separability

import (
	"math"
	"sort"

	"edakit/domain/core"
)

// QuartileRange is the interquartile span of a sample.
type QuartileRange struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	IQR   float64 `json:"iqr"`
}

// Quartiles computes the 25th and 75th percentiles of data by linear
// interpolation between closest ranks. data is not modified.
func Quartiles(data []float64) (QuartileRange, error) {
	if len(data) == 0 {
		return QuartileRange{}, core.ErrEmptyInput
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	lower := percentileSorted(sorted, 25)
	upper := percentileSorted(sorted, 75)
	return QuartileRange{Lower: lower, Upper: upper, IQR: upper - lower}, nil
}

// Fence returns the Tukey fence [Lower - k*IQR, Upper + k*IQR].
func (q QuartileRange) Fence(k float64) (lo, hi float64) {
	return q.Lower - k*q.IQR, q.Upper + k*q.IQR
}

// Contains reports whether v lies inside the Tukey fence with factor k.
func (q QuartileRange) Contains(v, k float64) bool {
	lo, hi := q.Fence(k)
	return lo <= v && v <= hi
}

// percentileSorted expects ascending input and p in [0, 100].
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

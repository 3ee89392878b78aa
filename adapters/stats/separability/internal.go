package separability

import (
	"sort"

	"edakit/domain/core"
	"edakit/domain/screening"
)

// InternalTest checks whether a class dominates an early prefix of the
// outlier-trimmed interior of a feature's distribution.
type InternalTest struct {
	cutoff         float64
	decisionPoints []float64
	fenceK         float64
	order          screening.InteriorOrder
}

// NewInternalTest creates an interior-prefix test from the policy
func NewInternalTest(policy screening.Policy) *InternalTest {
	return &InternalTest{
		cutoff:         policy.Cutoff,
		decisionPoints: policy.DecisionPoints,
		fenceK:         policy.FenceK,
		order:          policy.InteriorOrder,
	}
}

// Name returns the test name
func (t *InternalTest) Name() string {
	return "internal_separability"
}

// Test classifies column x against labels y for target class c.
//
// The fence is derived from the rows labelled c, but rows of either class
// inside it form the interior. With OriginalOrder the prefix scan follows
// input row order, so callers must not shuffle rows beforehand.
func (t *InternalTest) Test(x, y []float64, c screening.Class) (screening.InternalVerdict, error) {
	verdict := screening.InternalVerdict{Target: c}
	if c != screening.ClassZero && c != screening.ClassOne {
		return verdict, core.NewEmptyClassError(int(c))
	}
	if err := ValidateLabels(x, y); err != nil {
		return verdict, err
	}

	var members []float64
	for i, v := range x {
		if y[i] == float64(c) {
			members = append(members, v)
		}
	}
	q, err := Quartiles(members)
	if err != nil {
		return verdict, core.NewEmptyClassError(int(c))
	}

	interior := t.interior(x, y, q)
	for _, dp := range t.decisionPoints {
		end := int(float64(len(interior)) * dp)
		if end == 0 {
			continue
		}
		if classShare(interior[:end], c) >= t.cutoff {
			verdict.Separable = true
			verdict.Trigger = dp
			return verdict, nil
		}
	}
	return verdict, nil
}

// interior returns the labels of rows inside the fence, in scan order.
func (t *InternalTest) interior(x, y []float64, q QuartileRange) []float64 {
	idx := make([]int, 0, len(x))
	for i, v := range x {
		if q.Contains(v, t.fenceK) {
			idx = append(idx, i)
		}
	}
	if t.order == screening.ValueOrder {
		sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })
	}

	labels := make([]float64, len(idx))
	for k, i := range idx {
		labels[k] = y[i]
	}
	return labels
}

// IsInternallySeparable runs the interior-prefix test with the default policy.
func IsInternallySeparable(x, y []float64, c screening.Class) (bool, error) {
	v, err := NewInternalTest(screening.DefaultPolicy()).Test(x, y, c)
	return v.Separable, err
}

package separability

import (
	"fmt"

	"edakit/domain/screening"
)

// ExternalTest checks whether the tails of a feature's distribution are
// dominated by a class.
type ExternalTest struct {
	cutoff float64
}

// NewExternalTest creates a tail-purity test using the policy cutoff
func NewExternalTest(policy screening.Policy) *ExternalTest {
	return &ExternalTest{cutoff: policy.Cutoff}
}

// Name returns the test name
func (t *ExternalTest) Name() string {
	return "external_separability"
}

// Test classifies column x against labels y.
//
// An empty tail yields the not-separable fallback verdict together with an
// error wrapping core.ErrEmptyTail; callers decide whether to keep it.
func (t *ExternalTest) Test(x, y []float64) (screening.ExternalVerdict, error) {
	if err := ValidateLabels(x, y); err != nil {
		return screening.ExternalVerdict{}, err
	}

	q, err := Quartiles(x)
	if err != nil {
		return screening.ExternalVerdict{}, err
	}

	var left, right []float64
	for i, v := range x {
		if v <= q.Lower {
			left = append(left, y[i])
		}
		if v >= q.Upper {
			right = append(right, y[i])
		}
	}

	fallback := screening.ExternalVerdict{
		Descriptor: screening.Descriptor{Left: screening.ClassNone, Right: screening.ClassNone},
		Fallback:   true,
	}
	dl, err := dominantClass(left, t.cutoff)
	if err != nil {
		return fallback, fmt.Errorf("%w: left of %g", err, q.Lower)
	}
	dr, err := dominantClass(right, t.cutoff)
	if err != nil {
		return fallback, fmt.Errorf("%w: right of %g", err, q.Upper)
	}

	d := screening.Descriptor{Left: dl, Right: dr}
	switch {
	case d.Full():
		// Both tails collapsing onto one class carries no discriminative signal.
		return screening.ExternalVerdict{Separable: dl != dr, Descriptor: d}, nil
	case d.Half():
		return screening.ExternalVerdict{Separable: true, Descriptor: d}, nil
	}
	return screening.ExternalVerdict{Separable: false, Descriptor: d}, nil
}

// IsExternallySeparable runs the tail-purity test with the default policy.
func IsExternallySeparable(x, y []float64) (bool, screening.Descriptor, error) {
	v, err := NewExternalTest(screening.DefaultPolicy()).Test(x, y)
	return v.Separable, v.Descriptor, err
}

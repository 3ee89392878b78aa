package screening

import (
	"fmt"
	"slices"
)

// Class is a binary label value, or ClassNone when no class dominates.
type Class int

const (
	ClassNone Class = -1
	ClassZero Class = 0
	ClassOne  Class = 1
)

// Other returns the opposite class. ClassNone has no opposite.
func (c Class) Other() Class {
	switch c {
	case ClassZero:
		return ClassOne
	case ClassOne:
		return ClassZero
	}
	return ClassNone
}

// String renders the class as 0, 1 or "-" for none.
func (c Class) String() string {
	if c == ClassNone {
		return "-"
	}
	return fmt.Sprintf("%d", int(c))
}

// Descriptor records the class dominating each distribution tail.
type Descriptor struct {
	Left  Class `json:"left" yaml:"left"`
	Right Class `json:"right" yaml:"right"`
}

// Full reports whether both tails are dominated.
func (d Descriptor) Full() bool {
	return d.Left != ClassNone && d.Right != ClassNone
}

// Half reports whether exactly one tail is dominated.
func (d Descriptor) Half() bool {
	return (d.Left == ClassNone) != (d.Right == ClassNone)
}

// Collapsed returns the shared class when both tails agree, else ClassNone.
func (d Descriptor) Collapsed() Class {
	if d.Full() && d.Left == d.Right {
		return d.Left
	}
	return ClassNone
}

// String renders the descriptor as (left,right).
func (d Descriptor) String() string {
	return fmt.Sprintf("(%s,%s)", d.Left, d.Right)
}

// ExternalVerdict is the outcome of the tail-purity test for one feature.
type ExternalVerdict struct {
	Separable  bool       `json:"separable"`
	Descriptor Descriptor `json:"descriptor"`
	// Fallback is set when an empty tail forced the not-separable verdict.
	Fallback bool `json:"fallback,omitempty"`
}

// InternalVerdict is the outcome of the interior-prefix test for one feature.
type InternalVerdict struct {
	Target    Class   `json:"target"`
	Separable bool    `json:"separable"`
	Trigger   float64 `json:"trigger,omitempty"` // decision point that fired
}

// FeatureVerdict collects every verdict computed for a feature.
type FeatureVerdict struct {
	Feature  int              `json:"feature"`
	External ExternalVerdict  `json:"external"`
	Internal *InternalVerdict `json:"internal,omitempty"`
}

// ScanResult partitions feature indices by the model family that can exploit them.
// LR is always a subset of RF.
type ScanResult struct {
	LR       []int `json:"lr"`
	RF       []int `json:"rf"`
	Half     []int `json:"half"`
	Internal []int `json:"internal"`
}

// NonLinearOnly returns the features usable by RF but not by LR.
func (r ScanResult) NonLinearOnly() []int {
	out := make([]int, 0, len(r.RF))
	for _, f := range r.RF {
		if !slices.Contains(r.LR, f) {
			out = append(out, f)
		}
	}
	return out
}

// Recommendation names the suggested model family.
type Recommendation string

const (
	RandomForest       Recommendation = "random_forest"
	LogisticRegression Recommendation = "logistic_regression"
)

// Label returns the human-readable model family name.
func (r Recommendation) Label() string {
	switch r {
	case RandomForest:
		return "Random Forest"
	case LogisticRegression:
		return "Logistic Regression"
	}
	return string(r)
}

// Decision is the full output of a recommendation run.
type Decision struct {
	Recommendation    Recommendation   `json:"recommendation"`
	Score             float64          `json:"score"`
	Threshold         float64          `json:"threshold"`
	RatioScore        float64          `json:"ratio_score"`
	DistributionBonus float64          `json:"distribution_bonus"`
	Samples           int              `json:"samples"`
	Features          int              `json:"features"`
	Scan              ScanResult       `json:"scan"`
	Verdicts          []FeatureVerdict `json:"verdicts"`
}

package screening

import (
	"fmt"
	"math"
	"slices"

	"edakit/domain/core"
)

// InteriorOrder controls the row order used by the interior prefix scan.
type InteriorOrder string

const (
	// OriginalOrder keeps rows in input order.
	OriginalOrder InteriorOrder = "original"
	// ValueOrder stable-sorts interior rows by feature value.
	ValueOrder InteriorOrder = "value"
)

// RatioBracket maps sample/feature ratios at or above Lower to Score.
type RatioBracket struct {
	Lower     float64 `json:"lower" yaml:"lower"`
	Score     float64 `json:"score" yaml:"score"`
	Penalized bool    `json:"penalized" yaml:"penalized"`
}

// Policy holds every threshold and weight of the screening heuristics.
type Policy struct {
	// Separability tests
	Cutoff         float64       `json:"cutoff" yaml:"cutoff"`
	DecisionPoints []float64     `json:"decision_points" yaml:"decision_points"`
	FenceK         float64       `json:"fence_k" yaml:"fence_k"`
	InteriorOrder  InteriorOrder `json:"interior_order" yaml:"interior_order"`

	// Sample/feature ratio
	RatioBrackets      []RatioBracket `json:"ratio_brackets" yaml:"ratio_brackets"`
	SmallSampleLimit   int            `json:"small_sample_limit" yaml:"small_sample_limit"`
	SmallSamplePenalty float64        `json:"small_sample_penalty" yaml:"small_sample_penalty"`

	// Aggregate decision
	RatioWeight          float64 `json:"ratio_weight" yaml:"ratio_weight"`
	DistributionWeight   float64 `json:"distribution_weight" yaml:"distribution_weight"`
	NonLinearBonus       float64 `json:"non_linear_bonus" yaml:"non_linear_bonus"`
	SparseLinearBonus    float64 `json:"sparse_linear_bonus" yaml:"sparse_linear_bonus"`
	LRWeight             float64 `json:"lr_weight" yaml:"lr_weight"`
	HalfWeight           float64 `json:"half_weight" yaml:"half_weight"`
	SparseLinearFraction float64 `json:"sparse_linear_fraction" yaml:"sparse_linear_fraction"`
	DecisionFraction     float64 `json:"decision_fraction" yaml:"decision_fraction"`

	// Workers bounds concurrent feature scans; zero means one per CPU.
	Workers int `json:"workers" yaml:"workers"`
}

// DefaultPolicy returns the reference thresholds.
func DefaultPolicy() Policy {
	return Policy{
		Cutoff:         0.7,
		DecisionPoints: []float64{0.25, 0.4, 0.5, 0.6, 0.75},
		FenceK:         1.5,
		InteriorOrder:  OriginalOrder,

		RatioBrackets: []RatioBracket{
			{Lower: 0, Score: 0.10},
			{Lower: 1, Score: 0.20},
			{Lower: 10, Score: 0.50},
			{Lower: 100, Score: 0.90, Penalized: true},
			{Lower: 200, Score: 0.95, Penalized: true},
		},
		SmallSampleLimit:   1000,
		SmallSamplePenalty: 0.10,

		RatioWeight:          0.2,
		DistributionWeight:   0.8,
		NonLinearBonus:       0.3,
		SparseLinearBonus:    0.5,
		LRWeight:             0.66,
		HalfWeight:           0.33,
		SparseLinearFraction: 0.2,
		DecisionFraction:     0.2,
	}
}

// Validate checks the policy for values the heuristics cannot work with.
func (p Policy) Validate() error {
	if p.Cutoff <= 0.5 || p.Cutoff > 1 {
		return core.NewPolicyError("cutoff", "must be in (0.5, 1]")
	}
	if len(p.DecisionPoints) == 0 {
		return core.NewPolicyError("decision_points", "must not be empty")
	}
	for _, dp := range p.DecisionPoints {
		if dp <= 0 || dp > 1 {
			return core.NewPolicyError("decision_points", "must be in (0, 1]")
		}
	}
	if p.FenceK < 0 || math.IsNaN(p.FenceK) {
		return core.NewPolicyError("fence_k", "must be non-negative")
	}
	switch p.InteriorOrder {
	case OriginalOrder, ValueOrder:
	default:
		return core.NewPolicyError("interior_order", "must be original or value")
	}
	if len(p.RatioBrackets) == 0 {
		return core.NewPolicyError("ratio_brackets", "must not be empty")
	}
	if !slices.IsSortedFunc(p.RatioBrackets, func(a, b RatioBracket) int {
		switch {
		case a.Lower < b.Lower:
			return -1
		case a.Lower > b.Lower:
			return 1
		}
		return 0
	}) {
		return core.NewPolicyError("ratio_brackets", "must be sorted by lower bound")
	}
	if p.SmallSampleLimit < 0 || p.SmallSamplePenalty < 0 {
		return core.NewPolicyError("small_sample", "limit and penalty must be non-negative")
	}
	if p.Workers < 0 {
		return core.NewPolicyError("workers", "must be non-negative")
	}
	return nil
}

// RatioScore scores the adequacy of n samples over f features.
func (p Policy) RatioScore(n, f int) (float64, error) {
	if f == 0 {
		return 0, fmt.Errorf("%w: %d samples over 0 features", core.ErrDivisionByZero, n)
	}
	ratio := float64(n) / float64(f)
	if ratio <= 0 {
		return 0, nil
	}

	penalty := 0.0
	if n < p.SmallSampleLimit {
		penalty = p.SmallSamplePenalty
	}

	score := 0.0
	for _, b := range p.RatioBrackets {
		if ratio < b.Lower {
			break
		}
		score = b.Score
		if b.Penalized {
			score -= penalty
		}
	}
	return score, nil
}

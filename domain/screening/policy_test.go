package screening

import (
	"testing"

	"edakit/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatioScore_Table(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name     string
		samples  int
		features int
		want     float64
	}{
		{"wide data", 50, 500, 0.10},
		{"ratio one is upper bracket", 10, 10, 0.20},
		{"ratio ten is upper bracket", 100, 10, 0.50},
		{"ratio hundred small sample", 500, 5, 0.80},
		{"ratio hundred large sample", 1000, 10, 0.90},
		{"ratio two hundred small sample", 400, 2, 0.85},
		{"ratio five hundred large sample", 5000, 10, 0.95},
		{"zero samples", 0, 10, 0},
		{"negative features", 10, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.RatioScore(tt.samples, tt.features)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestRatioScore_ZeroFeatures(t *testing.T) {
	_, err := DefaultPolicy().RatioScore(10, 0)
	assert.ErrorIs(t, err, core.ErrDivisionByZero)
}

func TestRatioScore_MonotoneForFixedSamples(t *testing.T) {
	p := DefaultPolicy()
	for _, n := range []int{50, 999, 1000, 20000} {
		prev := -1.0
		for f := n * 2; f >= 1; f-- {
			score, err := p.RatioScore(n, f)
			require.NoError(t, err)
			assert.GreaterOrEqualf(t, score, prev, "n=%d f=%d", n, f)
			prev = score
		}
	}
}

func TestRatioScore_PenaltyDiscontinuity(t *testing.T) {
	p := DefaultPolicy()
	below, err := p.RatioScore(999, 3)
	require.NoError(t, err)
	at, err := p.RatioScore(1000, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, below, 1e-12)
	assert.InDelta(t, 0.95, at, 1e-12)
}

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())

	tests := []struct {
		name   string
		mutate func(*Policy)
	}{
		{"cutoff too low", func(p *Policy) { p.Cutoff = 0.5 }},
		{"cutoff above one", func(p *Policy) { p.Cutoff = 1.2 }},
		{"no decision points", func(p *Policy) { p.DecisionPoints = nil }},
		{"decision point zero", func(p *Policy) { p.DecisionPoints = []float64{0} }},
		{"negative fence", func(p *Policy) { p.FenceK = -1 }},
		{"unknown order", func(p *Policy) { p.InteriorOrder = "random" }},
		{"unsorted brackets", func(p *Policy) {
			p.RatioBrackets = []RatioBracket{{Lower: 10, Score: 0.5}, {Lower: 1, Score: 0.2}}
		}},
		{"negative workers", func(p *Policy) { p.Workers = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPolicy()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), core.ErrInvalidPolicy)
		})
	}
}

func TestDescriptor(t *testing.T) {
	assert.True(t, Descriptor{ClassZero, ClassOne}.Full())
	assert.True(t, Descriptor{ClassNone, ClassOne}.Half())
	assert.False(t, Descriptor{ClassNone, ClassNone}.Half())
	assert.Equal(t, ClassOne, Descriptor{ClassOne, ClassOne}.Collapsed())
	assert.Equal(t, ClassNone, Descriptor{ClassZero, ClassOne}.Collapsed())
	assert.Equal(t, "(0,-)", Descriptor{ClassZero, ClassNone}.String())
	assert.Equal(t, ClassOne, ClassZero.Other())
	assert.Equal(t, ClassNone, ClassNone.Other())
}

func TestScanResult_NonLinearOnly(t *testing.T) {
	r := ScanResult{LR: []int{0, 3}, RF: []int{0, 1, 3, 4}}
	assert.Equal(t, []int{1, 4}, r.NonLinearOnly())
}

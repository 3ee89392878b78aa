package separability

import (
	"edakit/domain/core"
	"edakit/domain/screening"

	"github.com/montanaflynn/stats"
)

// ValidateLabels checks that x and y align and that y is binary with both classes present.
func ValidateLabels(x, y []float64) error {
	if len(x) != len(y) {
		return core.NewDimensionError("labels", len(x), len(y))
	}
	if len(y) == 0 {
		return core.ErrEmptyInput
	}
	var seen [2]bool
	for i, v := range y {
		switch v {
		case 0:
			seen[0] = true
		case 1:
			seen[1] = true
		default:
			return core.NewLabelError(i, v)
		}
	}
	for c, ok := range seen {
		if !ok {
			return core.NewEmptyClassError(c)
		}
	}
	return nil
}

// dominantClass returns the class whose share of side reaches cutoff.
func dominantClass(side []float64, cutoff float64) (screening.Class, error) {
	m, err := stats.Mean(side)
	if err != nil {
		return screening.ClassNone, core.ErrEmptyTail
	}
	switch {
	case m >= cutoff:
		return screening.ClassOne, nil
	case 1-m >= cutoff:
		return screening.ClassZero, nil
	}
	return screening.ClassNone, nil
}

// classShare is the fraction of labels equal to c.
func classShare(labels []float64, c screening.Class) float64 {
	hits := 0
	for _, v := range labels {
		if v == float64(c) {
			hits++
		}
	}
	return float64(hits) / float64(len(labels))
}

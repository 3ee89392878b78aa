// Package plot renders per-class value distributions of a single feature as
// text, so tail and interior separability can be inspected in a terminal.
package plot

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"edakit/adapters/stats/separability"
	"edakit/domain/core"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const barWidth = 30

// DefaultBins is the bin count used when none is given
const DefaultBins = 12

// Strip is the binned per-class distribution of one feature.
type Strip struct {
	Feature  string
	Dividers []float64
	Counts   [2][]float64
	Missing  int
	Quartile separability.QuartileRange
}

// Build bins the finite values of x by class over a shared axis.
func Build(x, y []float64, feature string, bins int) (*Strip, error) {
	if err := separability.ValidateLabels(x, y); err != nil {
		return nil, err
	}
	if bins <= 0 {
		bins = DefaultBins
	}

	var byClass [2][]float64
	var all []float64
	missing := 0
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			missing++
			continue
		}
		c := int(y[i])
		byClass[c] = append(byClass[c], v)
		all = append(all, v)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: feature %s has no observed values", core.ErrEmptyInput, feature)
	}

	q, err := separability.Quartiles(all)
	if err != nil {
		return nil, err
	}

	lo, hi := floats.Min(all), floats.Max(all)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// the histogram's last bin is open on the right
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	s := &Strip{Feature: feature, Dividers: dividers, Missing: missing, Quartile: q}
	for c := range byClass {
		values := byClass[c]
		if len(values) == 0 {
			s.Counts[c] = make([]float64, bins)
			continue
		}
		sort.Float64s(values)
		s.Counts[c] = stat.Histogram(nil, dividers, values, nil)
	}
	return s, nil
}

// Render writes the strip as one line per bin with a bar per class.
func (s *Strip) Render(w io.Writer) error {
	peak := 0.0
	for c := range s.Counts {
		peak = math.Max(peak, floats.Max(s.Counts[c]))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "feature %s: %d class 0, %d class 1, %d missing\n",
		s.Feature, int(floats.Sum(s.Counts[0])), int(floats.Sum(s.Counts[1])), s.Missing)
	fmt.Fprintf(&b, "q1=%.4g q3=%.4g iqr=%.4g\n", s.Quartile.Lower, s.Quartile.Upper, s.Quartile.IQR)
	fmt.Fprintf(&b, "%-25s %-*s %-*s\n", "bin", barWidth+6, "class 0", barWidth+6, "class 1")

	for k := 0; k+1 < len(s.Dividers); k++ {
		fmt.Fprintf(&b, "[%10.4g, %10.4g) ", s.Dividers[k], s.Dividers[k+1])
		for c := range s.Counts {
			n := s.Counts[c][k]
			fmt.Fprintf(&b, "%-*s %5d", barWidth, bar(n, peak), int(n))
			if c == 0 {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func bar(n, peak float64) string {
	if peak == 0 || n == 0 {
		return ""
	}
	width := int(math.Round(n / peak * barWidth))
	if width == 0 {
		width = 1
	}
	return strings.Repeat("#", width)
}

// RenderStrip builds and renders the strip for one feature column.
func RenderStrip(w io.Writer, x, y []float64, feature string, bins int) error {
	s, err := Build(x, y, feature, bins)
	if err != nil {
		return err
	}
	return s.Render(w)
}

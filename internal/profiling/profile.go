// Package profiling computes descriptive statistics for dataset columns.
package profiling

import (
	"math"

	"edakit/adapters/stats/separability"
	"edakit/domain/dataset"

	"github.com/montanaflynn/stats"
)

// ColumnProfile summarises the observed values of one column.
type ColumnProfile struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Missing  int     `json:"missing"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Skewness float64 `json:"skewness"`
	Outliers int     `json:"outliers"` // outside the Tukey fence
}

// MissingFraction is the share of cells that were missing
func (p ColumnProfile) MissingFraction() float64 {
	total := p.Count + p.Missing
	if total == 0 {
		return 0
	}
	return float64(p.Missing) / float64(total)
}

// ProfileTable profiles every column of table. fenceK scales the IQR fence
// used to count outliers.
func ProfileTable(table *dataset.Table, fenceK float64) ([]ColumnProfile, error) {
	profiles := make([]ColumnProfile, table.NumCols())
	for j, name := range table.Columns {
		p, err := ProfileColumn(name, table.Column(j), fenceK)
		if err != nil {
			return nil, err
		}
		profiles[j] = p
	}
	return profiles, nil
}

// ProfileColumn profiles a single column. Non-finite cells count as missing; a
// column with no observed values has only its counts set.
func ProfileColumn(name string, values []float64, fenceK float64) (ColumnProfile, error) {
	profile := ColumnProfile{Name: name}

	data := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			profile.Missing++
			continue
		}
		data = append(data, v)
	}
	profile.Count = len(data)
	if len(data) == 0 {
		return profile, nil
	}

	var err error
	if profile.Mean, err = stats.Mean(data); err != nil {
		return profile, err
	}
	if profile.StdDev, err = stats.StandardDeviation(data); err != nil {
		return profile, err
	}
	if profile.Min, err = stats.Min(data); err != nil {
		return profile, err
	}
	if profile.Max, err = stats.Max(data); err != nil {
		return profile, err
	}
	if profile.Median, err = stats.Median(data); err != nil {
		return profile, err
	}
	profile.Skewness = skewness(data, profile.Mean, profile.StdDev)

	q, err := separability.Quartiles(data)
	if err != nil {
		return profile, err
	}
	for _, v := range data {
		if !q.Contains(v, fenceK) {
			profile.Outliers++
		}
	}
	return profile, nil
}

// skewness is the adjusted Fisher-Pearson coefficient; zero when undefined.
func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return sum / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// Package dataprep prepares tables for screening.
package dataprep

import (
	"fmt"
	"math"

	"edakit/domain/core"
	"edakit/domain/dataset"

	"github.com/montanaflynn/stats"
)

// DefaultDropThreshold is the missing fraction at which a column is dropped.
const DefaultDropThreshold = 0.5

// ImputeResult is an imputed copy of a table and what was done to it.
type ImputeResult struct {
	Table   *dataset.Table     `json:"table"`
	Medians map[string]float64 `json:"medians"`
	Dropped []string           `json:"dropped"`
}

// ImputeMissing drops every column whose missing fraction is at least
// dropThreshold and fills the remaining missing cells with the column
// median. The input table is left untouched.
func ImputeMissing(table *dataset.Table, dropThreshold float64) (*ImputeResult, error) {
	if table == nil || table.NumCols() == 0 {
		return nil, fmt.Errorf("%w: table has no columns", core.ErrEmptyInput)
	}
	if table.NumRows() == 0 {
		return nil, fmt.Errorf("%w: table has no rows", core.ErrEmptyInput)
	}
	if math.IsNaN(dropThreshold) || dropThreshold <= 0 || dropThreshold > 1 {
		return nil, fmt.Errorf("drop threshold must be in (0,1], got %v", dropThreshold)
	}

	n := float64(table.NumRows())
	result := &ImputeResult{
		Medians: make(map[string]float64),
		Dropped: []string{},
	}

	var keep []int
	for j, name := range table.Columns {
		missing := table.MissingCount(j)
		if float64(missing)/n >= dropThreshold {
			result.Dropped = append(result.Dropped, name)
			continue
		}
		keep = append(keep, j)
		if missing == 0 {
			continue
		}

		median, err := stats.Median(present(table.Column(j)))
		if err != nil {
			return nil, fmt.Errorf("median of %s: %w", name, err)
		}
		result.Medians[name] = median
	}

	out := &dataset.Table{
		Columns: make([]string, len(keep)),
		Rows:    make([][]float64, table.NumRows()),
	}
	if table.Levels != nil {
		out.Levels = append([]string(nil), table.Levels...)
	}
	for k, j := range keep {
		out.Columns[k] = table.Columns[j]
	}
	for i, row := range table.Rows {
		newRow := make([]float64, len(keep))
		for k, j := range keep {
			v := row[j]
			if math.IsNaN(v) {
				v = result.Medians[table.Columns[j]]
			}
			newRow[k] = v
		}
		out.Rows[i] = newRow
	}
	result.Table = out
	return result, nil
}

func present(col []float64) []float64 {
	out := col[:0]
	for _, v := range col {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

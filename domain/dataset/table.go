package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"edakit/domain/core"

	"gonum.org/v1/gonum/mat"
)

var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
}

// IsMissingToken reports whether a raw cell stands for a missing value.
func IsMissingToken(s string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(s))]
}

// FromRaw coerces a raw table to numbers. Cells that cannot be parsed are
// reported as DataErrors and stored as NaN. When target names a column whose
// values are exactly two distinct non-numeric strings, the column is
// binarized in sorted order (first name -> 0, second -> 1).
func FromRaw(raw *RawTable, target string) (*Table, []DataError, error) {
	if raw == nil || len(raw.Headers) == 0 {
		return nil, nil, fmt.Errorf("%w: table has no header row", core.ErrEmptyInput)
	}

	headers := make([]string, len(raw.Headers))
	seen := make(map[string]bool, len(raw.Headers))
	for j, h := range raw.Headers {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", j+1)
		}
		if seen[h] {
			return nil, nil, fmt.Errorf("duplicate column header %q", h)
		}
		seen[h] = true
		headers[j] = h
	}

	targetIdx := -1
	if target != "" {
		targetIdx = indexOf(headers, target)
		if targetIdx < 0 {
			return nil, nil, core.NewColumnNotFoundError(target)
		}
	}

	var levels map[string]float64
	var names []string
	if targetIdx >= 0 {
		levels, names = targetLevels(raw.Rows, targetIdx)
	}

	table := &Table{Columns: headers, Rows: make([][]float64, len(raw.Rows)), Levels: names}
	var dataErrs []DataError

	for i, cells := range raw.Rows {
		row := make([]float64, len(headers))
		for j := range headers {
			cell := ""
			if j < len(cells) {
				cell = strings.TrimSpace(cells[j])
			}

			if j == targetIdx && levels != nil && !IsMissingToken(cell) {
				row[j] = levels[cell]
				continue
			}

			v, err := parseCell(cell)
			if err != nil {
				dataErrs = append(dataErrs, DataError{
					Row:     i + 1,
					Column:  headers[j],
					Value:   cell,
					Message: err.Error(),
				})
			}
			row[j] = v
		}
		table.Rows[i] = row
	}

	return table, dataErrs, nil
}

func parseCell(cell string) (float64, error) {
	if IsMissingToken(cell) {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN(), core.ErrNonNumeric
	}
	return v, nil
}

// targetLevels returns the label map for a two-valued non-numeric column,
// or nil when the column should be parsed as numbers.
func targetLevels(rows [][]string, j int) (map[string]float64, []string) {
	distinct := make(map[string]bool)
	for _, cells := range rows {
		if j >= len(cells) {
			continue
		}
		cell := strings.TrimSpace(cells[j])
		if IsMissingToken(cell) {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			return nil, nil
		}
		distinct[cell] = true
	}
	if len(distinct) != 2 {
		return nil, nil
	}

	names := make([]string, 0, 2)
	for name := range distinct {
		names = append(names, name)
	}
	sort.Strings(names)
	return map[string]float64{names[0]: 0, names[1]: 1}, names
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	if j := indexOf(t.Columns, name); j >= 0 {
		return j, nil
	}
	return -1, core.NewColumnNotFoundError(name)
}

// Split separates the target column from the features. It returns the
// feature matrix, the label vector and the feature names in column order.
func (t *Table) Split(target string) (*mat.Dense, []float64, []string, error) {
	tj, err := t.ColumnIndex(target)
	if err != nil {
		return nil, nil, nil, err
	}
	n, cols := t.NumRows(), t.NumCols()
	if n == 0 {
		return nil, nil, nil, fmt.Errorf("%w: table has no rows", core.ErrEmptyInput)
	}
	if cols < 2 {
		return nil, nil, nil, fmt.Errorf("%w: table has no feature columns", core.ErrEmptyInput)
	}

	names := make([]string, 0, cols-1)
	for j, name := range t.Columns {
		if j != tj {
			names = append(names, name)
		}
	}

	x := mat.NewDense(n, cols-1, nil)
	y := make([]float64, n)
	for i, row := range t.Rows {
		if len(row) != cols {
			return nil, nil, nil, core.NewDimensionError(fmt.Sprintf("row %d width", i+1), cols, len(row))
		}
		label := row[tj]
		if label != 0 && label != 1 {
			return nil, nil, nil, core.NewLabelError(i, label)
		}
		y[i] = label

		k := 0
		for j, v := range row {
			if j == tj {
				continue
			}
			x.Set(i, k, v)
			k++
		}
	}
	return x, y, names, nil
}

func indexOf(names []string, name string) int {
	for j, n := range names {
		if n == name {
			return j
		}
	}
	return -1
}

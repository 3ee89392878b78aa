package dataset

import (
	"fmt"
	"math"
)

// RawTable holds spreadsheet cells exactly as read, before coercion.
type RawTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Table is a numeric dataset. A missing cell is NaN.
type Table struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`

	// Levels holds the original names of a binarized target, index = label.
	Levels []string `json:"levels,omitempty"`
}

// DataError describes a single cell that could not be coerced.
type DataError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (e DataError) Error() string {
	return fmt.Sprintf("row %d, column %q: %s (%q)", e.Row, e.Column, e.Message, e.Value)
}

// NumRows returns the number of samples
func (t *Table) NumRows() int { return len(t.Rows) }

// NumCols returns the number of columns
func (t *Table) NumCols() int { return len(t.Columns) }

// Column returns a copy of column j
func (t *Table) Column(j int) []float64 {
	col := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[j]
	}
	return col
}

// MissingCount returns the number of NaN cells in column j
func (t *Table) MissingCount(j int) int {
	missing := 0
	for _, row := range t.Rows {
		if math.IsNaN(row[j]) {
			missing++
		}
	}
	return missing
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]float64, len(t.Rows)),
	}
	if t.Levels != nil {
		out.Levels = append([]string(nil), t.Levels...)
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]float64(nil), row...)
	}
	return out
}

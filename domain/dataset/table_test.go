package dataset

import (
	"math"
	"testing"

	"edakit/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRaw_CoercesAndCollectsErrors(t *testing.T) {
	raw := &RawTable{
		Headers: []string{"age", " income ", "churn"},
		Rows: [][]string{
			{"31", "1200.5", "yes"},
			{"NA", "abc", "no"},
			{"45", "", "yes"},
			{"52"},
		},
	}

	table, dataErrs, err := FromRaw(raw, "churn")
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "income", "churn"}, table.Columns)
	assert.Equal(t, []string{"no", "yes"}, table.Levels)

	assert.Equal(t, 31.0, table.Rows[0][0])
	assert.Equal(t, 1200.5, table.Rows[0][1])
	assert.Equal(t, 1.0, table.Rows[0][2])
	assert.True(t, math.IsNaN(table.Rows[1][0]))
	assert.True(t, math.IsNaN(table.Rows[1][1]))
	assert.Equal(t, 0.0, table.Rows[1][2])
	assert.True(t, math.IsNaN(table.Rows[2][1]))
	assert.True(t, math.IsNaN(table.Rows[3][2]), "short rows are padded with missing cells")

	require.Len(t, dataErrs, 1)
	assert.Equal(t, 2, dataErrs[0].Row)
	assert.Equal(t, "income", dataErrs[0].Column)
	assert.Equal(t, "abc", dataErrs[0].Value)
}

func TestFromRaw_NumericTargetIsNotRemapped(t *testing.T) {
	raw := &RawTable{
		Headers: []string{"x", "y"},
		Rows:    [][]string{{"1", "0"}, {"2", "1"}},
	}
	table, dataErrs, err := FromRaw(raw, "y")
	require.NoError(t, err)
	assert.Empty(t, dataErrs)
	assert.Nil(t, table.Levels)
	assert.Equal(t, []float64{0, 1}, table.Column(1))
}

func TestFromRaw_Errors(t *testing.T) {
	_, _, err := FromRaw(&RawTable{}, "")
	assert.ErrorIs(t, err, core.ErrEmptyInput)

	_, _, err = FromRaw(&RawTable{Headers: []string{"a"}}, "missing")
	assert.ErrorIs(t, err, core.ErrColumnNotFound)

	_, _, err = FromRaw(&RawTable{Headers: []string{"a", "a"}}, "")
	assert.Error(t, err)
}

func TestIsMissingToken(t *testing.T) {
	for _, tok := range []string{"", " ", "NA", "n/a", "NaN", "null", "NULL"} {
		assert.Truef(t, IsMissingToken(tok), "%q", tok)
	}
	for _, tok := range []string{"0", "none", "-"} {
		assert.Falsef(t, IsMissingToken(tok), "%q", tok)
	}
}

func TestTable_Split(t *testing.T) {
	table := &Table{
		Columns: []string{"a", "label", "b"},
		Rows: [][]float64{
			{1, 0, 10},
			{2, 1, 20},
			{3, 1, 30},
		},
	}

	x, y, names, err := table.Split("label")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Equal(t, []float64{0, 1, 1}, y)
	r, c := x.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 30.0, x.At(2, 1))
}

func TestTable_SplitErrors(t *testing.T) {
	table := &Table{Columns: []string{"a", "label"}, Rows: [][]float64{{1, 0}, {2, math.NaN()}}}

	_, _, _, err := table.Split("label")
	assert.ErrorIs(t, err, core.ErrNonBinaryLabel)

	_, _, _, err = table.Split("nope")
	assert.ErrorIs(t, err, core.ErrColumnNotFound)

	only := &Table{Columns: []string{"label"}, Rows: [][]float64{{0}}}
	_, _, _, err = only.Split("label")
	assert.ErrorIs(t, err, core.ErrEmptyInput)
}

func TestTable_CloneIsDeep(t *testing.T) {
	table := &Table{Columns: []string{"a"}, Rows: [][]float64{{1}}}
	clone := table.Clone()
	clone.Rows[0][0] = 99
	clone.Columns[0] = "b"
	assert.Equal(t, 1.0, table.Rows[0][0])
	assert.Equal(t, "a", table.Columns[0])
	assert.Equal(t, 0, table.MissingCount(0))
}

func TestFromRaw_InfiniteCellsAreDataErrors(t *testing.T) {
	raw := &RawTable{
		Headers: []string{"x", "y"},
		Rows:    [][]string{{"Inf", "0"}, {"-Infinity", "1"}, {"+inf", "0"}, {"2.5", "1"}},
	}

	table, dataErrs, err := FromRaw(raw, "y")
	require.NoError(t, err)
	require.Len(t, dataErrs, 3)
	for i, de := range dataErrs {
		assert.Equal(t, i+1, de.Row)
		assert.Equal(t, core.ErrNonNumeric.Error(), de.Message)
	}
	assert.Equal(t, 3, table.MissingCount(0))
	assert.Equal(t, 2.5, table.Rows[3][0])
}

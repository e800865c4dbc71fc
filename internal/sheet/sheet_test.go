package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneDoesNotAliasInput(t *testing.T) {
	original := Sheet{
		Name:         "Summary",
		Cells:        [][]interface{}{{"<site.purchase>", 1.0}, {nil, "text"}},
		Formulas:     map[string]string{"B2": "SUM(A1:A2)"},
		ColumnWidths: map[int]float64{0: 14.5},
	}

	clone := original.Clone()
	clone.Cells[0][0] = "overwritten"
	clone.Formulas["B2"] = "changed"
	clone.ColumnWidths[0] = 99

	assert.Equal(t, "<site.purchase>", original.Cells[0][0])
	assert.Equal(t, "SUM(A1:A2)", original.Formulas["B2"])
	assert.Equal(t, 14.5, original.ColumnWidths[0])
}

func TestCloneAllPreservesShape(t *testing.T) {
	sheets := []Sheet{
		{Name: "One", Cells: [][]interface{}{{"a", "b"}, {"c"}}},
		{Name: "Two"},
	}
	clones := CloneAll(sheets)
	require.Len(t, clones, 2)
	assert.Equal(t, "One", clones[0].Name)
	require.Len(t, clones[0].Cells, 2)
	assert.Len(t, clones[0].Cells[0], 2)
	assert.Len(t, clones[0].Cells[1], 1)
	assert.Nil(t, clones[1].Cells)
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "A", ColumnName(0))
	assert.Equal(t, "Z", ColumnName(25))
	assert.Equal(t, "AA", ColumnName(26))
	assert.Equal(t, "AZ", ColumnName(51))
	assert.Equal(t, "BA", ColumnName(52))
}

func TestCellAddr(t *testing.T) {
	assert.Equal(t, "A1", CellAddr(0, 0))
	assert.Equal(t, "C7", CellAddr(6, 2))
}

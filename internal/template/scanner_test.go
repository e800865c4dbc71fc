package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CodifyEngine/internal/sheet"
)

func TestScanClassifiesTokens(t *testing.T) {
	sheets := []sheet.Sheet{{
		Name: "Appraisal",
		Cells: [][]interface{}{
			{"<site.purchase>", "Total: <gdv.total>"},
			{"<all.plots.name>", "<all.plots.value>"},
			{"<all.plots.name.1>", "<all.plots.value.1>"},
			{"<unknown garbage token>", 42.0, nil},
		},
	}}

	result := Scan(sheets)

	// Specific: two real codes plus the unrecognized token (treated as a
	// specific code that will simply go unmatched).
	require.Len(t, result.Specific, 3)
	assert.Equal(t, "<site.purchase>", result.Specific[0].Token)
	assert.Equal(t, "<gdv.total>", result.Specific[1].Token)
	assert.Equal(t, "<unknown garbage token>", result.Specific[2].Token)

	require.Len(t, result.FallbackRows, 2)

	def := result.FallbackRows[0]
	assert.Equal(t, "plots", def.Category)
	assert.Equal(t, DefaultSetKey, def.SetKey)
	assert.Equal(t, 1, def.Row)
	assert.Equal(t, 0, def.NameCol)
	assert.Equal(t, 1, def.ValueCol)

	numbered := result.FallbackRows[1]
	assert.Equal(t, "plots", numbered.Category)
	assert.Equal(t, "1", numbered.SetKey)
	assert.Equal(t, 2, numbered.Row)
}

func TestScanNumberedPatternTakesPrecedence(t *testing.T) {
	// <all.revenue.name.2> must never be read as a default token for a
	// category "revenue.name".
	sheets := []sheet.Sheet{{
		Cells: [][]interface{}{{"<all.revenue.name.2>", "<all.revenue.value.2>"}},
	}}
	result := Scan(sheets)
	assert.Empty(t, result.Specific)
	require.Len(t, result.FallbackRows, 1)
	assert.Equal(t, "revenue", result.FallbackRows[0].Category)
	assert.Equal(t, "2", result.FallbackRows[0].SetKey)
}

func TestScanNumberedSetAcceptsLeadingZeros(t *testing.T) {
	// .01 and .1 are the same set, so the halves pair into one row.
	sheets := []sheet.Sheet{{
		Cells: [][]interface{}{{"<all.plots.name.01>", "<all.plots.value.1>"}},
	}}
	result := Scan(sheets)
	assert.Empty(t, result.Specific)
	require.Len(t, result.FallbackRows, 1)
	row := result.FallbackRows[0]
	assert.Equal(t, "plots", row.Category)
	assert.Equal(t, "1", row.SetKey)
	assert.Equal(t, "<all.plots.name.01>", row.NameToken)
	assert.Equal(t, "<all.plots.value.1>", row.ValueToken)
}

func TestScanHalfPairs(t *testing.T) {
	sheets := []sheet.Sheet{{
		Cells: [][]interface{}{
			{"<all.plots.name>"},          // name only
			{nil, "<all.revenue.value>"},  // value only
		},
	}}
	result := Scan(sheets)
	require.Len(t, result.FallbackRows, 2)
	assert.Equal(t, 0, result.FallbackRows[0].NameCol)
	assert.Equal(t, -1, result.FallbackRows[0].ValueCol)
	assert.Equal(t, -1, result.FallbackRows[1].NameCol)
	assert.Equal(t, 1, result.FallbackRows[1].ValueCol)
}

func TestScanSortsFallbackRows(t *testing.T) {
	sheets := []sheet.Sheet{
		{Cells: [][]interface{}{
			{nil},
			{nil},
			{"<all.plots.name.2>"},
			{nil},
			{"<all.plots.name>"},
		}},
		{Cells: [][]interface{}{
			{"<all.plots.name>"},
		}},
	}
	// Same row carries both a default and a numbered token.
	sheets[0].Cells[2] = append(sheets[0].Cells[2], "<all.plots.value>")

	result := Scan(sheets)
	require.Len(t, result.FallbackRows, 4)

	// Sheet 0 row 2: default set sorts before numbered set.
	assert.Equal(t, 0, result.FallbackRows[0].SheetIndex)
	assert.Equal(t, 2, result.FallbackRows[0].Row)
	assert.Equal(t, DefaultSetKey, result.FallbackRows[0].SetKey)
	assert.Equal(t, "2", result.FallbackRows[1].SetKey)

	assert.Equal(t, 4, result.FallbackRows[2].Row)
	assert.Equal(t, 1, result.FallbackRows[3].SheetIndex)
}

func TestScanNormalizesTokenCategory(t *testing.T) {
	// "gdv" is a synonym for revenue; both spellings land in one pool key.
	sheets := []sheet.Sheet{{
		Cells: [][]interface{}{{"<all.gdv.name>", "<all.gdv.value>"}},
	}}
	result := Scan(sheets)
	require.Len(t, result.FallbackRows, 1)
	assert.Equal(t, "revenue", result.FallbackRows[0].Category)
}

func TestScanEmptyTemplate(t *testing.T) {
	result := Scan([]sheet.Sheet{{Cells: [][]interface{}{{1.0, nil, "plain text"}}}})
	assert.Empty(t, result.Specific)
	assert.Empty(t, result.FallbackRows)
}

// Package sheet holds the in-memory workbook model shared by the scanner,
// the populator and the file adapters. Cells are plain values addressed by
// zero-based (row, col); formulas and column widths ride alongside so a
// populated workbook can be written back without losing them.
package sheet

import "fmt"

// Sheet is one worksheet of a template workbook.
type Sheet struct {
	Name         string            `json:"name"`
	Cells        [][]interface{}   `json:"cells"`
	Formulas     map[string]string `json:"formulas,omitempty"`
	ColumnWidths map[int]float64   `json:"column_widths,omitempty"`
}

// Clone returns a structurally independent copy. Every container is rebuilt
// so the caller's sheet is never aliased; the populator clones before any
// write and documents that inputs stay untouched.
func (s Sheet) Clone() Sheet {
	out := Sheet{Name: s.Name}

	if s.Cells != nil {
		out.Cells = make([][]interface{}, len(s.Cells))
		for i, row := range s.Cells {
			if row == nil {
				continue
			}
			out.Cells[i] = make([]interface{}, len(row))
			copy(out.Cells[i], row)
		}
	}
	if s.Formulas != nil {
		out.Formulas = make(map[string]string, len(s.Formulas))
		for k, v := range s.Formulas {
			out.Formulas[k] = v
		}
	}
	if s.ColumnWidths != nil {
		out.ColumnWidths = make(map[int]float64, len(s.ColumnWidths))
		for k, v := range s.ColumnWidths {
			out.ColumnWidths[k] = v
		}
	}
	return out
}

// CloneAll deep-copies a slice of sheets.
func CloneAll(sheets []Sheet) []Sheet {
	out := make([]Sheet, len(sheets))
	for i, s := range sheets {
		out[i] = s.Clone()
	}
	return out
}

// CellAddr converts zero-based (row, col) to an A1-style address.
func CellAddr(row, col int) string {
	return fmt.Sprintf("%s%d", ColumnName(col), row+1)
}

// ColumnName converts a zero-based column index to its letter form
// (0 -> A, 25 -> Z, 26 -> AA).
func ColumnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

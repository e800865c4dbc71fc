package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads an .xlsx workbook into the in-memory model. Cell values
// come back as display strings (the placeholder grammar is textual), cell
// formulas and column widths are captured so the populated workbook can be
// written back intact.
func LoadXLSX(r io.Reader) ([]Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}

		s := Sheet{Name: name}
		maxCols := 0
		for _, row := range rows {
			if len(row) > maxCols {
				maxCols = len(row)
			}
		}
		s.Cells = make([][]interface{}, len(rows))
		for ri, row := range rows {
			s.Cells[ri] = make([]interface{}, maxCols)
			for ci, v := range row {
				if v != "" {
					s.Cells[ri][ci] = v
				}
			}
		}

		// Formula-only cells can sit outside the value grid, so scan up to
		// the sheet dimension rather than the populated row bounds.
		dimRows, dimCols := len(rows), maxCols
		if dim, err := f.GetSheetDimension(name); err == nil && dim != "" {
			parts := strings.Split(dim, ":")
			if col, row, err := excelize.CellNameToCoordinates(parts[len(parts)-1]); err == nil {
				if row > dimRows {
					dimRows = row
				}
				if col > dimCols {
					dimCols = col
				}
			}
		}
		for ri := 0; ri < dimRows; ri++ {
			for ci := 0; ci < dimCols; ci++ {
				addr := CellAddr(ri, ci)
				formula, err := f.GetCellFormula(name, addr)
				if err == nil && formula != "" {
					if s.Formulas == nil {
						s.Formulas = make(map[string]string)
					}
					s.Formulas[addr] = formula
				}
			}
		}

		for ci := 0; ci < maxCols; ci++ {
			width, err := f.GetColWidth(name, ColumnName(ci))
			if err == nil && width > 0 {
				if s.ColumnWidths == nil {
					s.ColumnWidths = make(map[int]float64)
				}
				s.ColumnWidths[ci] = width
			}
		}

		sheets = append(sheets, s)
	}
	return sheets, nil
}

// WriteXLSX renders the sheets to an .xlsx stream. Values are written first,
// then formulas re-applied on top so formula cells survive population.
func WriteXLSX(sheets []Sheet, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", s.Name, err)
			}
		} else {
			if _, err := f.NewSheet(s.Name); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", s.Name, err)
			}
		}

		for ri, row := range s.Cells {
			for ci, v := range row {
				if v == nil {
					continue
				}
				if err := f.SetCellValue(s.Name, CellAddr(ri, ci), v); err != nil {
					return fmt.Errorf("failed to write cell %s!%s: %w", s.Name, CellAddr(ri, ci), err)
				}
			}
		}

		for addr, formula := range s.Formulas {
			if err := f.SetCellFormula(s.Name, addr, formula); err != nil {
				return fmt.Errorf("failed to write formula %s!%s: %w", s.Name, addr, err)
			}
		}

		for col, width := range s.ColumnWidths {
			name := ColumnName(col)
			if err := f.SetColWidth(s.Name, name, name, width); err != nil {
				return fmt.Errorf("failed to set column width %s!%s: %w", s.Name, name, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

package sheet

import (
	"fmt"
	"io"

	"github.com/extrame/xls"
)

// LoadXLS reads a legacy binary .xls workbook into the in-memory model.
// The legacy reader is values-only: no formulas or column widths. Old
// appraisal templates still circulate in this format, so the upload path
// accepts it alongside .xlsx.
func LoadXLS(r io.ReadSeeker) ([]Sheet, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}

	var sheets []Sheet
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}

		s := Sheet{Name: ws.Name}
		rowCount := int(ws.MaxRow) + 1

		maxCols := 0
		for ri := 0; ri < rowCount; ri++ {
			row := ws.Row(ri)
			if row == nil {
				continue
			}
			if row.LastCol()+1 > maxCols {
				maxCols = row.LastCol() + 1
			}
		}

		s.Cells = make([][]interface{}, rowCount)
		for ri := 0; ri < rowCount; ri++ {
			s.Cells[ri] = make([]interface{}, maxCols)
			row := ws.Row(ri)
			if row == nil {
				continue
			}
			for ci := row.FirstCol(); ci <= row.LastCol(); ci++ {
				if v := row.Col(ci); v != "" {
					s.Cells[ri][ci] = v
				}
			}
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}

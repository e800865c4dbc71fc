package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
)

// LoadCSV reads a CSV stream as a single-sheet workbook.
func LoadCSV(r io.Reader, name string) ([]Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	maxCols := 0
	for _, rec := range records {
		if len(rec) > maxCols {
			maxCols = len(rec)
		}
	}

	s := Sheet{Name: name, Cells: make([][]interface{}, len(records))}
	for ri, rec := range records {
		s.Cells[ri] = make([]interface{}, maxCols)
		for ci, v := range rec {
			if v != "" {
				s.Cells[ri][ci] = v
			}
		}
	}
	return []Sheet{s}, nil
}

package sheet

import "context"

// CellWrite is one pending cell mutation for the formula engine.
type CellWrite struct {
	SheetName string
	Row       int
	Col       int
	Value     interface{}
}

// FormulaEngine is the boundary to an external formula-evaluation engine.
// The host owns the engine's lifetime; this package never keeps one alive
// between calls. ApplyBatch implementations are expected to suspend
// recalculation for the duration of the batch so a bulk populate does not
// trigger a recalc per cell.
type FormulaEngine interface {
	Init(ctx context.Context, sheets []Sheet) error
	IsFormulaCell(sheetName string, row, col int) bool
	ApplyBatch(ctx context.Context, writes []CellWrite) error
	GetValue(sheetName string, row, col int) (interface{}, error)
	Dispose() error
}

// ApplyPopulated pushes every populated cell value to the engine in a single
// batch, skipping cells the engine classifies as formula cells (their values
// are derived, not input).
func ApplyPopulated(ctx context.Context, engine FormulaEngine, sheets []Sheet) error {
	var writes []CellWrite
	for _, s := range sheets {
		for r, row := range s.Cells {
			for c, v := range row {
				if v == nil {
					continue
				}
				if engine.IsFormulaCell(s.Name, r, c) {
					continue
				}
				writes = append(writes, CellWrite{SheetName: s.Name, Row: r, Col: c, Value: v})
			}
		}
	}
	if len(writes) == 0 {
		return nil
	}
	return engine.ApplyBatch(ctx, writes)
}

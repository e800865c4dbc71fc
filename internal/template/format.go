package template

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"CodifyEngine/internal/codify"
)

// FormatValueForTemplate converts an item value into the shape written to a
// template cell. Currency and plain numbers coerce to float64 (unparsable
// input formats to 0, never an error). Percentages stored as ratios (<=1)
// pass through; whole-number percentages ("5" meaning 5%) divide by 100.
// The >1 heuristic is ambiguous for genuine >100% figures (markup ratios);
// it is preserved as-is for compatibility with upstream data conventions.
func FormatValueForTemplate(value interface{}, dataType codify.DataType) interface{} {
	switch dataType {
	case codify.DataTypeCurrency, codify.DataTypeNumber:
		return coerceNumeric(value)
	case codify.DataTypePercentage:
		v := coerceNumeric(value)
		if v > 1 {
			ratio, _ := decimal.NewFromFloat(v).Div(decimal.NewFromInt(100)).Float64()
			return ratio
		}
		return v
	default:
		return fmt.Sprintf("%v", value)
	}
}

var numericCleaner = strings.NewReplacer("£", "", "$", "", "€", "", ",", "", "%", "", " ", "")

// coerceNumeric turns whatever the extraction step produced into a float64,
// falling back to 0 rather than failing.
func coerceNumeric(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		cleaned := numericCleaner.Replace(strings.TrimSpace(v))
		if cleaned == "" {
			return 0
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return 0
		}
		f, _ := d.Float64()
		return f
	default:
		return 0
	}
}

package codify

// MappingStatus is the lifecycle state of a codified item.
type MappingStatus string

const (
	// StatusPendingReview is the initial state after a Fast Pass miss.
	StatusPendingReview MappingStatus = "pending_review"
	// StatusMatched is set by a Fast Pass hit.
	StatusMatched MappingStatus = "matched"
	// StatusSuggested, StatusConfirmed and StatusUnmatched are reached only
	// through the human review step; the engine never sets them but must
	// carry them (confirmed items fill templates exactly like matched ones).
	StatusSuggested MappingStatus = "suggested"
	StatusConfirmed MappingStatus = "confirmed"
	StatusUnmatched MappingStatus = "unmatched"
)

// DataType classifies a codified item's value for template formatting.
type DataType string

const (
	DataTypeCurrency   DataType = "currency"
	DataTypePercentage DataType = "percentage"
	DataTypeNumber     DataType = "number"
	DataTypeString     DataType = "string"
)

// RawItem is a free-text line item produced by the extraction step.
type RawItem struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency,omitempty"`
	Category string  `json:"category,omitempty"`
}

// AliasEntry maps a normalized free-text variant onto a canonical item code.
// Many aliases may share a canonical code; the dictionary may also carry
// colliding normalized keys (resolved in BuildLookup).
type AliasEntry struct {
	NormalizedAlias string  `json:"normalized_alias"`
	CanonicalCode   string  `json:"canonical_code"`
	CanonicalCodeID string  `json:"canonical_code_id"`
	Confidence      float64 `json:"confidence"`
	Source          string  `json:"source"`
}

// CodifiedItem is a line item after codification. OriginalName is the
// verbatim source label and is never normalized or rewritten; it is what
// fallback population writes into name cells.
type CodifiedItem struct {
	ID              string        `json:"id"`
	OriginalName    string        `json:"original_name"`
	ItemCode        string        `json:"item_code,omitempty"`
	Value           interface{}   `json:"value"`
	DataType        DataType      `json:"data_type"`
	Category        string        `json:"category"`
	MappingStatus   MappingStatus `json:"mapping_status"`
	Confidence      float64       `json:"confidence"`
	IsComputedTotal bool          `json:"is_computed_total,omitempty"`
}

// Eligible reports whether the item may be used as template fill material.
// Computed totals are additionally excluded from category fallback pools;
// that filter lives with the populator.
func (c CodifiedItem) Eligible() bool {
	return c.MappingStatus == StatusMatched || c.MappingStatus == StatusConfirmed
}

// FastPassStats summarizes a Fast Pass run for the review UI.
type FastPassStats struct {
	Matched       int `json:"matched"`
	PendingReview int `json:"pending_review"`
	Total         int `json:"total"`
}

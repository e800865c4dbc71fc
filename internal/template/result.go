package template

import (
	"CodifyEngine/internal/codify"
	"CodifyEngine/internal/sheet"
)

// FallbackSetFill records which items one (sheet, category, set) group
// received, in insertion order.
type FallbackSetFill struct {
	SheetIndex int      `json:"sheet_index"`
	Category   string   `json:"category"`
	SetKey     string   `json:"set_key"`
	ItemIDs    []string `json:"item_ids"`
}

// CategoryOverflow reports pool items that had no fallback slot left, or a
// fallback group whose category matched zero pool items (ItemsInserted=0).
// Overflow is an accounting outcome, not an error: the engine never grows
// a template to make room.
type CategoryOverflow struct {
	Category       string                `json:"category"`
	SheetIndex     int                   `json:"sheet_index"`
	SetKey         string                `json:"set_key"`
	SlotsAvailable int                   `json:"slots_available"`
	ItemsInserted  int                   `json:"items_inserted"`
	Items          []codify.CodifiedItem `json:"items"`
}

// PopulationStats aggregates a population run.
type PopulationStats struct {
	TotalPlaceholders int `json:"total_placeholders"`
	Matched           int `json:"matched"`
	Unmatched         int `json:"unmatched"`
	FallbacksInserted int `json:"fallbacks_inserted"`
	OverflowCount     int `json:"overflow_count"`
}

// PopulationResult is everything a caller needs to export the populated
// workbook and report on what happened. Sheets are freshly allocated; the
// input workbook is never mutated.
type PopulationResult struct {
	Sheets                []sheet.Sheet      `json:"sheets"`
	MatchedPlaceholders   []string           `json:"matched_placeholders"`
	UnmatchedPlaceholders []string           `json:"unmatched_placeholders"`
	FallbacksUsed         []FallbackSetFill  `json:"fallbacks_used"`
	OverflowItems         []CategoryOverflow `json:"overflow_items"`
	Stats                 PopulationStats    `json:"stats"`
}

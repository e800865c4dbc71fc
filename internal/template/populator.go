package template

import (
	"fmt"
	"strconv"
	"strings"

	"CodifyEngine/internal/codify"
	"CodifyEngine/internal/normalize"
	"CodifyEngine/internal/sheet"
)

// Options tunes a population run.
type Options struct {
	// Observer receives per-event callbacks; nil disables them.
	Observer Observer
}

// Populate runs the two-pass placeholder population over a template.
// Inputs are treated as immutable: the sheets are cloned before any write
// and the returned result owns all of its containers. Given identical
// inputs the output is identical, byte for byte.
func Populate(sheets []sheet.Sheet, items []codify.CodifiedItem) PopulationResult {
	return PopulateWithOptions(sheets, items, Options{})
}

// PopulateWithOptions is Populate with an observer attached.
//
// Pass 1 resolves every unique specific-code placeholder against the
// codified-item index (exact code, then case-insensitive) and overwrites
// every occurrence on every sheet, recording per sheet which item IDs a
// specific placeholder consumed. Specific matching never exhausts an item.
//
// Pass 2 allocates category fallback rows. Default sets draw from the
// category pool minus the items consumed by pass 1 on the same sheet;
// numbered sets always draw from the full pool. Rows fill strictly
// top-to-bottom, one pool item each. Rows left over keep their placeholder
// text; items left over are reported as overflow.
func PopulateWithOptions(sheets []sheet.Sheet, items []codify.CodifiedItem, opts Options) PopulationResult {
	scan := Scan(sheets)
	out := sheet.CloneAll(sheets)

	result := PopulationResult{Sheets: out}

	consumed := make([]map[string]bool, len(out))
	for i := range consumed {
		consumed[i] = make(map[string]bool)
	}

	populateSpecific(out, scan, items, consumed, opts.Observer, &result)
	populateFallbacks(out, scan, items, consumed, opts.Observer, &result)

	result.Stats.TotalPlaceholders = result.Stats.Matched + result.Stats.Unmatched + len(scan.FallbackRows)
	result.Stats.OverflowCount = len(result.OverflowItems)
	return result
}

// populateSpecific is pass 1.
func populateSpecific(out []sheet.Sheet, scan ScanResult, items []codify.CodifiedItem, consumed []map[string]bool, obs Observer, result *PopulationResult) {
	byCode := make(map[string]codify.CodifiedItem)
	byLowerCode := make(map[string]codify.CodifiedItem)
	for _, item := range items {
		if !item.Eligible() || item.ItemCode == "" {
			continue
		}
		if _, ok := byCode[item.ItemCode]; !ok {
			byCode[item.ItemCode] = item
		}
		lower := strings.ToLower(item.ItemCode)
		if _, ok := byLowerCode[lower]; !ok {
			byLowerCode[lower] = item
		}
	}

	// Unique tokens in first-encounter order.
	var tokens []string
	seen := make(map[string]bool)
	for _, occ := range scan.Specific {
		if !seen[occ.Token] {
			seen[occ.Token] = true
			tokens = append(tokens, occ.Token)
		}
	}

	for _, token := range tokens {
		item, ok := byCode[token]
		if !ok {
			item, ok = byLowerCode[strings.ToLower(token)]
		}
		if !ok {
			result.UnmatchedPlaceholders = append(result.UnmatchedPlaceholders, token)
			result.Stats.Unmatched++
			continue
		}

		occurrences := 0
		value := FormatValueForTemplate(item.Value, item.DataType)
		for _, occ := range scan.Specific {
			if occ.Token != token {
				continue
			}
			writeCell(out, occ.SheetIndex, occ.Row, occ.Col, token, value)
			consumed[occ.SheetIndex][item.ID] = true
			occurrences++
		}

		result.MatchedPlaceholders = append(result.MatchedPlaceholders, token)
		result.Stats.Matched++
		if obs != nil {
			obs.OnMatch(token, item, occurrences)
		}
	}
}

// populateFallbacks is pass 2.
func populateFallbacks(out []sheet.Sheet, scan ScanResult, items []codify.CodifiedItem, consumed []map[string]bool, obs Observer, result *PopulationResult) {
	pools := buildCategoryPools(items)

	type groupKey struct {
		sheetIndex int
		category   string
		setKey     string
	}
	groups := make(map[groupKey][]CategoryFallbackRow)
	var order []groupKey
	for _, row := range scan.FallbackRows {
		key := groupKey{sheetIndex: row.SheetIndex, category: row.Category, setKey: row.SetKey}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], row)
	}

	for _, key := range order {
		rows := groups[key]
		pool := pools[key.category]

		var available []codify.CodifiedItem
		if key.setKey == DefaultSetKey {
			for _, item := range pool {
				if !consumed[key.sheetIndex][item.ID] {
					available = append(available, item)
				}
			}
		} else {
			// Numbered sets get an independent full copy of the category,
			// regardless of what pass 1 consumed anywhere.
			available = pool
		}

		inserted := 0
		var filledIDs []string
		for _, row := range rows {
			if inserted >= len(available) {
				break
			}
			item := available[inserted]
			inserted++

			if row.NameCol >= 0 {
				writeCell(out, row.SheetIndex, row.Row, row.NameCol, row.NameToken, item.OriginalName)
			}
			if row.ValueCol >= 0 {
				writeCell(out, row.SheetIndex, row.Row, row.ValueCol, row.ValueToken, FormatValueForTemplate(item.Value, item.DataType))
			}
			filledIDs = append(filledIDs, item.ID)
			result.Stats.FallbacksInserted++
			if obs != nil {
				obs.OnFallbackFilled(row.SheetIndex, row.Row, key.category, key.setKey, item)
			}
		}

		if inserted > 0 {
			result.FallbacksUsed = append(result.FallbacksUsed, FallbackSetFill{
				SheetIndex: key.sheetIndex,
				Category:   key.category,
				SetKey:     key.setKey,
				ItemIDs:    filledIDs,
			})
		}

		leftover := available[inserted:]
		if len(leftover) > 0 || len(available) == 0 {
			overflow := CategoryOverflow{
				Category:       key.category,
				SheetIndex:     key.sheetIndex,
				SetKey:         key.setKey,
				SlotsAvailable: len(rows),
				ItemsInserted:  inserted,
				Items:          append([]codify.CodifiedItem(nil), leftover...),
			}
			result.OverflowItems = append(result.OverflowItems, overflow)
			if obs != nil {
				obs.OnOverflow(overflow)
			}
		}
	}
}

// buildCategoryPools groups fill-eligible items by normalized category in
// input order (FIFO consumption depends on that order). Computed totals are
// excluded: they duplicate the line items already in the pool.
func buildCategoryPools(items []codify.CodifiedItem) map[string][]codify.CodifiedItem {
	pools := make(map[string][]codify.CodifiedItem)
	for _, item := range items {
		if !item.Eligible() || item.IsComputedTotal {
			continue
		}
		category := normalize.NormalizeCategory(item.Category)
		if category == "" {
			continue
		}
		pools[category] = append(pools[category], item)
	}
	return pools
}

// writeCell overwrites one placeholder occurrence. A cell that is exactly
// the token takes the typed value; a cell with surrounding text gets a
// substring substitution that preserves the rest of the text.
func writeCell(out []sheet.Sheet, sheetIndex, row, col int, token string, value interface{}) {
	cell := out[sheetIndex].Cells[row][col]
	text, ok := cell.(string)
	if !ok {
		return
	}
	if text == token {
		out[sheetIndex].Cells[row][col] = value
		return
	}
	out[sheetIndex].Cells[row][col] = strings.Replace(text, token, renderInline(value), -1)
}

// renderInline renders a value for substitution inside surrounding text.
// Floats use plain decimal notation; %v would flip seven-figure currency
// values into scientific notation.
func renderInline(value interface{}) string {
	if f, ok := value.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", value)
}

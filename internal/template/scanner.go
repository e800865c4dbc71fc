package template

import (
	"regexp"
	"sort"
	"strconv"

	"CodifyEngine/internal/normalize"
	"CodifyEngine/internal/sheet"
)

// DefaultSetKey marks a category fallback row belonging to the default set,
// which deduplicates per sheet against specific-code consumption. Numbered
// sets use the number itself as the key and always receive a full copy.
const DefaultSetKey = "default"

var (
	// Any angle-bracketed token; classification happens per token so the
	// default pattern never needs lookahead to exclude a trailing .N.
	tokenRe = regexp.MustCompile(`<[^<>]+>`)
	// <all.CATEGORY.name.N> / <all.CATEGORY.value.N>; leading zeros are
	// accepted and canonicalized, so .01 and .1 name the same set.
	numberedFallbackRe = regexp.MustCompile(`^<all\.([a-z][a-z.]*)\.(name|value)\.([0-9]+)>$`)
	// <all.CATEGORY.name> / <all.CATEGORY.value>
	defaultFallbackRe = regexp.MustCompile(`^<all\.([a-z][a-z.]*)\.(name|value)>$`)
)

// PlaceholderOccurrence is one specific-code token found in one cell.
type PlaceholderOccurrence struct {
	SheetIndex int
	Row        int
	Col        int
	Token      string
}

// CategoryFallbackRow is the unit of fallback allocation: the name/value
// placeholder pair (either half may be absent) found on one template row
// for one category and set.
type CategoryFallbackRow struct {
	SheetIndex int
	Row        int
	Category   string
	SetKey     string
	NameCol    int // -1 when the row has no name placeholder
	NameToken  string
	ValueCol   int // -1 when the row has no value placeholder
	ValueToken string
}

// ScanResult is the classified placeholder inventory of a template.
type ScanResult struct {
	Specific     []PlaceholderOccurrence
	FallbackRows []CategoryFallbackRow
}

// Scan walks every string cell of every sheet and classifies each
// angle-bracketed token. Precedence per token: numbered-set fallback, then
// default fallback, then specific code (verbatim; unrecognized grammar
// simply goes unmatched later). Fallback tokens sharing
// (sheet, row, category, set) collapse into one CategoryFallbackRow, and
// rows come back sorted by (sheet, row, set) so fill order is top-to-bottom
// and reproducible.
func Scan(sheets []sheet.Sheet) ScanResult {
	var result ScanResult
	fallback := make(map[fallbackKey]*CategoryFallbackRow)
	var fallbackOrder []fallbackKey

	for si, s := range sheets {
		for ri, row := range s.Cells {
			for ci, cell := range row {
				text, ok := cell.(string)
				if !ok {
					continue
				}
				for _, token := range findAllTokens(text) {
					if m := numberedFallbackRe.FindStringSubmatch(token); m != nil {
						n, _ := strconv.Atoi(m[3])
						key := recordFallback(fallback, si, ri, ci, m[1], m[2], strconv.Itoa(n), token)
						if key != nil {
							fallbackOrder = append(fallbackOrder, *key)
						}
						continue
					}
					if m := defaultFallbackRe.FindStringSubmatch(token); m != nil {
						key := recordFallback(fallback, si, ri, ci, m[1], m[2], DefaultSetKey, token)
						if key != nil {
							fallbackOrder = append(fallbackOrder, *key)
						}
						continue
					}
					result.Specific = append(result.Specific, PlaceholderOccurrence{
						SheetIndex: si, Row: ri, Col: ci, Token: token,
					})
				}
			}
		}
	}

	for _, key := range fallbackOrder {
		result.FallbackRows = append(result.FallbackRows, *fallback[key])
	}
	sortFallbackRows(result.FallbackRows)
	return result
}

type fallbackKey struct {
	sheetIndex int
	row        int
	category   string
	setKey     string
}

// recordFallback merges a name or value token into its row record. Returns
// the key on first sight of a (sheet,row,category,set) group, nil after.
func recordFallback(rows map[fallbackKey]*CategoryFallbackRow, si, ri, ci int, rawCategory, half, setKey, token string) *fallbackKey {
	category := normalize.NormalizeCategory(rawCategory)
	key := fallbackKey{sheetIndex: si, row: ri, category: category, setKey: setKey}

	rec, seen := rows[key]
	if !seen {
		rec = &CategoryFallbackRow{
			SheetIndex: si, Row: ri, Category: category, SetKey: setKey,
			NameCol: -1, ValueCol: -1,
		}
		rows[key] = rec
	}

	if half == "name" {
		rec.NameCol = ci
		rec.NameToken = token
	} else {
		rec.ValueCol = ci
		rec.ValueToken = token
	}

	if seen {
		return nil
	}
	return &key
}

// findAllTokens returns every non-overlapping <...> token in a cell. Pure
// function of the input; no shared matcher state across calls.
func findAllTokens(text string) []string {
	return tokenRe.FindAllString(text, -1)
}

func sortFallbackRows(rows []CategoryFallbackRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SheetIndex != rows[j].SheetIndex {
			return rows[i].SheetIndex < rows[j].SheetIndex
		}
		if rows[i].Row != rows[j].Row {
			return rows[i].Row < rows[j].Row
		}
		return setKeyLess(rows[i].SetKey, rows[j].SetKey)
	})
}

// setKeyLess orders the default set before numbered sets, then numbered
// sets numerically.
func setKeyLess(a, b string) bool {
	if a == b {
		return false
	}
	if a == DefaultSetKey {
		return true
	}
	if b == DefaultSetKey {
		return false
	}
	an, _ := strconv.Atoi(a)
	bn, _ := strconv.Atoi(b)
	return an < bn
}

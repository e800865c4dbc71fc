package normalize

import (
	"regexp"
	"strings"
)

// categorySynonyms maps category names seen in source documents onto the
// fixed taxonomy used by template placeholders. Keys are lowercased and
// trimmed before lookup.
var categorySynonyms = map[string]string{
	"purchase costs":    "site.costs",
	"purchase cost":     "site.costs",
	"site purchase":     "site.costs",
	"site costs":        "site.costs",
	"acquisition":       "site.costs",
	"acquisition costs": "site.costs",
	"land":              "site.costs",
	"build budget":      "construction.costs",
	"build costs":       "construction.costs",
	"build cost":        "construction.costs",
	"construction":      "construction.costs",
	"units":             "plots",
	"houses":            "plots",
	"plots":             "plots",
	"unit schedule":     "plots",
	"sales":             "revenue",
	"income":            "revenue",
	"gdv":               "revenue",
	"revenue":           "revenue",
	"professional fees": "professional.fees",
	"professionals":     "professional.fees",
	"consultants":       "professional.fees",
	"finance":           "finance.costs",
	"finance costs":     "finance.costs",
	"funding":           "finance.costs",
	"contingency":       "contingency",
	"disposal":          "disposal.costs",
	"disposal costs":    "disposal.costs",
}

var categoryWhitespace = regexp.MustCompile(`\s+`)

// NormalizeCategory maps an arbitrary category string onto the placeholder
// taxonomy. Unknown categories fall back to the lowercased input with
// whitespace folded to dots, so "External Works" and "<all.external.works...>"
// still line up. Item pools and template tokens must both go through this
// function or fallback matching silently finds nothing.
func NormalizeCategory(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ""
	}
	if canonical, ok := categorySynonyms[key]; ok {
		return canonical
	}
	return categoryWhitespace.ReplaceAllString(key, ".")
}

package normalize

import (
	"regexp"
	"strings"
)

// Noise patterns stripped from labels before matching, applied in this order.
// Each match is replaced with a single space so surrounding words stay separated.
var noisePatterns = []*regexp.Regexp{
	// percentage figures: "5%", "12.5 %"
	regexp.MustCompile(`\d+(?:\.\d+)?\s*%`),
	// quantity markers: "x4", "x 12"
	regexp.MustCompile(`(?i)\bx\s*\d+\b`),
	// parenthetical bedroom counts: "(3 bed)", "(4 bedrooms)"
	regexp.MustCompile(`(?i)\(\s*\d+\s*(?:bed|beds|bedroom|bedrooms)\s*\)`),
	// free-standing bedroom counts: "3 bed", "4 bedroom"
	regexp.MustCompile(`(?i)\b\d+\s*(?:bed|beds|bedroom|bedrooms)\b`),
	// anything left in parentheses
	regexp.MustCompile(`\([^)]*\)`),
	// property-type words that change the label without changing the concept
	regexp.MustCompile(`(?i)\b(?:house|houses|flat|flats|apartment|apartments|bungalow|bungalows|detached|semi|terraced|townhouse|townhouses|maisonette|maisonettes)\b`),
}

var separatorReplacer = strings.NewReplacer(".", " ", "_", " ", "-", " ")

var whitespaceRe = regexp.MustCompile(`\s+`)

// pluralToSingular folds known plural words onto their singular form.
// Exact word match only; unknown words pass through unchanged.
var pluralToSingular = map[string]string{
	"rates":         "rate",
	"fees":          "fee",
	"costs":         "cost",
	"prices":        "price",
	"plots":         "plot",
	"units":         "unit",
	"sales":         "sale",
	"charges":       "charge",
	"levies":        "levy",
	"contingencies": "contingency",
	"surveys":       "survey",
	"reports":       "report",
	"works":         "work",
	"utilities":     "utility",
	"services":      "service",
	"payments":      "payment",
	"totals":        "total",
	"budgets":       "budget",
	"purchases":     "purchase",
	"interests":     "interest",
	"incomes":       "income",
	"acquisitions":  "acquisition",
}

// NormalizeLabel canonicalizes a raw line-item label into a matchable key.
// It is total (never fails) and idempotent: normalizing an already
// normalized key returns it unchanged. Display names are never normalized;
// callers keep the original label for presentation.
func NormalizeLabel(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))

	for _, re := range noisePatterns {
		s = re.ReplaceAllString(s, " ")
	}

	s = separatorReplacer.Replace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	words := strings.Split(s, " ")
	for i, w := range words {
		if singular, ok := pluralToSingular[w]; ok {
			words[i] = singular
		}
	}
	return strings.Join(words, " ")
}

var compoundWordAnd = regexp.MustCompile(`(?i)\band\b`)

// IsCompoundLabel reports whether a label looks like it describes more than
// one concept ("Legal & Survey Fees", "Water/Gas/Electric"). The engine does
// not split compounds; the signal is surfaced so a reviewer can.
func IsCompoundLabel(label string) bool {
	if strings.ContainsAny(label, "&/,") {
		return true
	}
	return compoundWordAnd.MatchString(label)
}

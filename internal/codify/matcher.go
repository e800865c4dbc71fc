package codify

import (
	"sort"

	"github.com/google/uuid"

	"CodifyEngine/internal/normalize"
)

// DefaultFuzzyThreshold is the minimum normalized similarity a dictionary
// key must reach before a fuzzy hit is accepted.
const DefaultFuzzyThreshold = 0.85

// BuildLookup indexes alias entries by normalized alias. On key collision
// the entry with the higher confidence wins; equal confidences keep the
// first-seen entry, so rebuilding from the same slice is deterministic.
func BuildLookup(entries []AliasEntry) map[string]AliasEntry {
	lookup := make(map[string]AliasEntry, len(entries))
	for _, e := range entries {
		existing, ok := lookup[e.NormalizedAlias]
		if !ok || e.Confidence > existing.Confidence {
			lookup[e.NormalizedAlias] = e
		}
	}
	return lookup
}

// MatchExact codifies one raw item against the dictionary by exact
// normalized-key lookup. A miss yields pending_review with zero confidence
// and no code; the item is never rejected outright.
func MatchExact(item RawItem, lookup map[string]AliasEntry) CodifiedItem {
	out := newCodifiedItem(item)

	key := normalize.NormalizeLabel(item.Label)
	if hit, ok := lookup[key]; ok {
		out.ItemCode = hit.CanonicalCode
		out.MappingStatus = StatusMatched
		out.Confidence = hit.Confidence
	}
	return out
}

// MatchFuzzy codifies one raw item, trying an exact lookup first and
// falling back to the best normalized-Levenshtein candidate at or above
// threshold. Fuzzy confidence is aliasConfidence x similarity, so a fuzzy
// hit never outranks an exact hit on the same alias. Ties between equally
// similar keys keep the first in sorted key order; the ordering is a
// determinism guarantee, not a quality ranking.
func MatchFuzzy(item RawItem, lookup map[string]AliasEntry, threshold float64) CodifiedItem {
	out := MatchExact(item, lookup)
	if out.MappingStatus == StatusMatched {
		return out
	}

	key := normalize.NormalizeLabel(item.Label)

	keys := make([]string, 0, len(lookup))
	for k := range lookup {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bestScore := 0.0
	var bestKey string
	found := false
	for _, k := range keys {
		score := similarity(key, k)
		if score >= threshold && score > bestScore {
			bestScore = score
			bestKey = k
			found = true
		}
	}

	if found {
		hit := lookup[bestKey]
		out.ItemCode = hit.CanonicalCode
		out.MappingStatus = StatusMatched
		out.Confidence = hit.Confidence * bestScore
	}
	return out
}

// DetectDataType infers how a value should be formatted when written into a
// template. A currency hint wins outright; a non-integral numeric in (0,1)
// reads as a stored ratio; any other numeric is a plain number.
func DetectDataType(value interface{}, currency string) DataType {
	if currency != "" {
		return DataTypeCurrency
	}
	switch v := value.(type) {
	case float64:
		if v > 0 && v < 1 && v != float64(int64(v)) {
			return DataTypePercentage
		}
		return DataTypeNumber
	case float32:
		return DetectDataType(float64(v), currency)
	case int:
		return DataTypeNumber
	case int64:
		return DataTypeNumber
	default:
		return DataTypeString
	}
}

// RunFastPass codifies a batch of raw items against the alias dictionary.
// Pure map over the input: output order matches input order and the stats
// are plain counts. An empty dictionary degrades to 100% pending_review.
func RunFastPass(items []RawItem, lookup map[string]AliasEntry) ([]CodifiedItem, FastPassStats) {
	out := make([]CodifiedItem, 0, len(items))
	stats := FastPassStats{Total: len(items)}

	for _, item := range items {
		codified := MatchFuzzy(item, lookup, DefaultFuzzyThreshold)
		if codified.MappingStatus == StatusMatched {
			stats.Matched++
		} else {
			stats.PendingReview++
		}
		out = append(out, codified)
	}
	return out, stats
}

func newCodifiedItem(item RawItem) CodifiedItem {
	return CodifiedItem{
		ID:            uuid.New().String(),
		OriginalName:  item.Label,
		Value:         item.Value,
		DataType:      DetectDataType(item.Value, item.Currency),
		Category:      item.Category,
		MappingStatus: StatusPendingReview,
		Confidence:    0,
	}
}

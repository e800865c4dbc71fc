package codify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLookupCollisionKeepsHigherConfidence(t *testing.T) {
	entries := []AliasEntry{
		{NormalizedAlias: "site purchase", CanonicalCode: "<site.purchase.a>", Confidence: 0.6},
		{NormalizedAlias: "site purchase", CanonicalCode: "<site.purchase.b>", Confidence: 0.9},
	}
	lookup := BuildLookup(entries)
	require.Len(t, lookup, 1)
	assert.Equal(t, "<site.purchase.b>", lookup["site purchase"].CanonicalCode)
}

func TestBuildLookupCollisionTieKeepsFirstSeen(t *testing.T) {
	entries := []AliasEntry{
		{NormalizedAlias: "legal fee", CanonicalCode: "<legal.first>", Confidence: 0.8},
		{NormalizedAlias: "legal fee", CanonicalCode: "<legal.second>", Confidence: 0.8},
	}
	lookup := BuildLookup(entries)
	assert.Equal(t, "<legal.first>", lookup["legal fee"].CanonicalCode)
}

func TestMatchExact(t *testing.T) {
	lookup := BuildLookup([]AliasEntry{
		{NormalizedAlias: "site purchase price", CanonicalCode: "<site.purchase>", Confidence: 0.95},
	})

	hit := MatchExact(RawItem{Label: "Site Purchase Price", Value: 500000, Currency: "GBP"}, lookup)
	assert.Equal(t, StatusMatched, hit.MappingStatus)
	assert.Equal(t, "<site.purchase>", hit.ItemCode)
	assert.Equal(t, 0.95, hit.Confidence)
	assert.Equal(t, "Site Purchase Price", hit.OriginalName, "display name stays verbatim")
	assert.Equal(t, DataTypeCurrency, hit.DataType)
	assert.NotEmpty(t, hit.ID)

	miss := MatchExact(RawItem{Label: "Helicopter Pad", Value: 1}, lookup)
	assert.Equal(t, StatusPendingReview, miss.MappingStatus)
	assert.Empty(t, miss.ItemCode)
	assert.Zero(t, miss.Confidence)
}

func TestMatchFuzzyExactHitShortCircuits(t *testing.T) {
	// Exact and near-exact keys both present: an exact hit must return the
	// alias confidence unscaled, never the fuzzy-scaled score.
	lookup := BuildLookup([]AliasEntry{
		{NormalizedAlias: "interest rate", CanonicalCode: "<interest.rate>", Confidence: 0.9},
		{NormalizedAlias: "interest rater", CanonicalCode: "<interest.other>", Confidence: 1.0},
	})
	got := MatchFuzzy(RawItem{Label: "Interest Rates"}, lookup, DefaultFuzzyThreshold)
	assert.Equal(t, "<interest.rate>", got.ItemCode)
	assert.Equal(t, 0.9, got.Confidence)
}

func TestMatchFuzzyThresholdBoundary(t *testing.T) {
	// 20-char key, distance 3 => similarity exactly 0.85: accepted.
	key := strings.Repeat("a", 20)
	label := strings.Repeat("a", 17) + "bbb"
	lookup := map[string]AliasEntry{
		key: {NormalizedAlias: key, CanonicalCode: "<boundary>", Confidence: 1.0},
	}
	got := MatchFuzzy(RawItem{Label: label}, lookup, DefaultFuzzyThreshold)
	require.Equal(t, StatusMatched, got.MappingStatus)
	assert.Equal(t, "<boundary>", got.ItemCode)
	assert.InDelta(t, 0.85, got.Confidence, 1e-9)

	// Distance 4 => 0.80: below threshold, stays pending.
	below := strings.Repeat("a", 16) + "bbbb"
	miss := MatchFuzzy(RawItem{Label: below}, lookup, DefaultFuzzyThreshold)
	assert.Equal(t, StatusPendingReview, miss.MappingStatus)

	// Just under the line (0.849) also stays pending.
	longKey := strings.Repeat("a", 1000)
	longLabel := strings.Repeat("a", 849) + strings.Repeat("b", 151)
	longLookup := map[string]AliasEntry{
		longKey: {NormalizedAlias: longKey, CanonicalCode: "<long>", Confidence: 1.0},
	}
	justUnder := MatchFuzzy(RawItem{Label: longLabel}, longLookup, DefaultFuzzyThreshold)
	assert.Equal(t, StatusPendingReview, justUnder.MappingStatus)
}

func TestMatchFuzzyConfidenceScaled(t *testing.T) {
	key := strings.Repeat("c", 10)
	label := strings.Repeat("c", 9) + "d" // similarity 0.9
	lookup := map[string]AliasEntry{
		key: {NormalizedAlias: key, CanonicalCode: "<scaled>", Confidence: 0.8},
	}
	got := MatchFuzzy(RawItem{Label: label}, lookup, DefaultFuzzyThreshold)
	require.Equal(t, StatusMatched, got.MappingStatus)
	assert.InDelta(t, 0.72, got.Confidence, 1e-9)
}

func TestDetectDataType(t *testing.T) {
	assert.Equal(t, DataTypeCurrency, DetectDataType(500000.0, "GBP"))
	assert.Equal(t, DataTypePercentage, DetectDataType(0.05, ""))
	assert.Equal(t, DataTypeNumber, DetectDataType(42.0, ""))
	assert.Equal(t, DataTypeNumber, DetectDataType(0.0, ""))
	assert.Equal(t, DataTypeNumber, DetectDataType(1.0, ""))
	assert.Equal(t, DataTypeNumber, DetectDataType(12, ""))
	assert.Equal(t, DataTypeString, DetectDataType("tbc", ""))
}

func TestRunFastPass(t *testing.T) {
	lookup := BuildLookup([]AliasEntry{
		{NormalizedAlias: "site purchase price", CanonicalCode: "<site.purchase>", Confidence: 0.95},
		{NormalizedAlias: "engineer fee", CanonicalCode: "<eng>", Confidence: 0.9},
	})
	items := []RawItem{
		{Label: "Site Purchase Price", Value: 500000, Currency: "GBP"},
		{Label: "Unicorn Stables", Value: 100},
		{Label: "Engineer Fees", Value: 9800, Category: "Professional Fees"},
	}

	codified, stats := RunFastPass(items, lookup)
	require.Len(t, codified, 3)
	assert.Equal(t, FastPassStats{Matched: 2, PendingReview: 1, Total: 3}, stats)

	// Input order preserved.
	assert.Equal(t, "Site Purchase Price", codified[0].OriginalName)
	assert.Equal(t, "Unicorn Stables", codified[1].OriginalName)
	assert.Equal(t, "Engineer Fees", codified[2].OriginalName)

	assert.Equal(t, StatusMatched, codified[0].MappingStatus)
	assert.Equal(t, StatusPendingReview, codified[1].MappingStatus)
	assert.Equal(t, StatusMatched, codified[2].MappingStatus)
	assert.Equal(t, "Professional Fees", codified[2].Category)

	// IDs are unique.
	assert.NotEqual(t, codified[0].ID, codified[1].ID)
}

func TestRunFastPassEmptyDictionary(t *testing.T) {
	codified, stats := RunFastPass([]RawItem{{Label: "Anything"}}, nil)
	require.Len(t, codified, 1)
	assert.Equal(t, StatusPendingReview, codified[0].MappingStatus)
	assert.Equal(t, FastPassStats{Matched: 0, PendingReview: 1, Total: 1}, stats)
}

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Purchase Costs", "site.costs"},
		{"  build budget ", "construction.costs"},
		{"Units", "plots"},
		{"houses", "plots"},
		{"GDV", "revenue"},
		{"Sales", "revenue"},
		{"Income", "revenue"},
		{"Professional Fees", "professional.fees"},
		{"Finance", "finance.costs"},
		// unknown categories fall back to dotted lowercase
		{"External Works", "external.works"},
		{"Marketing", "marketing"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCategory(tt.raw), "raw=%q", tt.raw)
	}
}

func TestNormalizeCategoryBothSidesAgree(t *testing.T) {
	// The token side of <all.professional.fees.name> is already canonical;
	// running it through again must be a no-op or pool grouping diverges.
	for _, canonical := range []string{"site.costs", "construction.costs", "plots", "revenue", "professional.fees"} {
		assert.Equal(t, canonical, NormalizeCategory(canonical))
	}
}

package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierByPriceID(t *testing.T) {
	tier, ok := TierByPriceID("pri_basic_month")
	require.True(t, ok)
	assert.Equal(t, "Basic", tier.Name)

	tier, ok = TierByPriceID("pri_pro_year")
	require.True(t, ok)
	assert.Equal(t, "Pro", tier.Name)
}

func TestTierByPriceIDMiss(t *testing.T) {
	tier, ok := TierByPriceID("pri_removed_plan")
	assert.False(t, ok)
	assert.Nil(t, tier)

	tier, ok = TierByPriceID("")
	assert.False(t, ok)
	assert.Nil(t, tier)
}

func TestCatalogPriceIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, tier := range Catalog {
		for _, priceID := range []string{tier.MonthlyPriceID, tier.YearlyPriceID} {
			require.NotEmpty(t, priceID, "tier %s", tier.ID)
			assert.False(t, seen[priceID], "duplicate price id %s", priceID)
			seen[priceID] = true
		}
	}
}

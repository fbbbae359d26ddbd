package pricing

// Tier is a static catalog entry describing a purchasable plan. The
// catalog is not persisted; it only translates a stored price
// identifier back into a human-facing plan.
//
// Invariant: price identifiers are unique across the whole catalog, so
// a price identifier never maps to more than one tier. Keep this table
// explicit and enumerated; don't derive it from anything.
type Tier struct {
	ID   string
	Name string

	MonthlyPriceID string
	YearlyPriceID  string

	// Prices are display strings in USD, matching what the provider's
	// checkout shows.
	MonthlyPrice string
	YearlyPrice  string

	Features []string
}

var Catalog = []Tier{
	{
		ID:             "basic",
		Name:           "Basic",
		MonthlyPriceID: "pri_basic_month",
		YearlyPriceID:  "pri_basic_year",
		MonthlyPrice:   "9",
		YearlyPrice:    "90",
		Features: []string{
			"3 forms",
			"500 submissions per month",
			"Email notifications",
		},
	},
	{
		ID:             "pro",
		Name:           "Pro",
		MonthlyPriceID: "pri_pro_month",
		YearlyPriceID:  "pri_pro_year",
		MonthlyPrice:   "29",
		YearlyPrice:    "290",
		Features: []string{
			"Unlimited forms",
			"10000 submissions per month",
			"File uploads",
			"Custom thank-you pages",
		},
	},
	{
		ID:             "advanced",
		Name:           "Advanced",
		MonthlyPriceID: "pri_advanced_month",
		YearlyPriceID:  "pri_advanced_year",
		MonthlyPrice:   "99",
		YearlyPrice:    "990",
		Features: []string{
			"Everything in Pro",
			"Unlimited submissions",
			"Webhooks and API access",
			"Priority support",
		},
	},
}

// TierByPriceID resolves a stored price identifier against the catalog,
// matching either billing period. A miss is a valid outcome (e.g. a
// stale price id from a removed plan), not an error.
func TierByPriceID(priceID string) (*Tier, bool) {
	if priceID == "" {
		return nil, false
	}

	for i := range Catalog {
		t := &Catalog[i]
		if t.MonthlyPriceID == priceID || t.YearlyPriceID == priceID {
			return t, true
		}
	}

	return nil, false
}

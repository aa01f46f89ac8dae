package profit

import "strings"

const (
	// share of net unit revenue sellers are advised to spend on ads at most
	adBudgetShare = 0.2

	DefaultCategory = "general"
)

type AdBidSuggestion struct {
	Category       string  `json:"category"`
	CommissionRate float64 `json:"commission_rate"`
	Ceiling        float64 `json:"ceiling"`
	Conservative   float64 `json:"conservative"`
	Moderate       float64 `json:"moderate"`
	Aggressive     float64 `json:"aggressive"`
}

// CommissionSchedule maps a product category to its platform commission.
type CommissionSchedule map[string]float64

// Rate returns the category's commission, falling back to the general
// category and then to 0.
func (c CommissionSchedule) Rate(category string) (string, float64) {
	key := strings.ToLower(strings.TrimSpace(category))
	if rate, ok := c[key]; ok {
		return key, rate
	}
	return DefaultCategory, c[DefaultCategory]
}

// SuggestAdBids proposes per-order ad bids for a selling price.
func SuggestAdBids(price, commissionRate float64) AdBidSuggestion {
	ceiling := price * (1 - commissionRate) * adBudgetShare
	return AdBidSuggestion{
		CommissionRate: commissionRate,
		Ceiling:        ceiling,
		Conservative:   ceiling * 0.3,
		Moderate:       ceiling * 0.6,
		Aggressive:     ceiling * 0.9,
	}
}

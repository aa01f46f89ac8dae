package profit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"profitgo/internal/domain"
)

func codes(warnings []Warning) []WarningCode {
	out := make([]WarningCode, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Code)
	}
	return out
}

func TestAssess_HealthyScenario(t *testing.T) {
	s := referenceScenario()
	s.ReturnQuantity = 5

	warnings := Assess(s, Compute(s, 100), DefaultThresholds())
	assert.Empty(t, warnings)
}

func TestAssess_FlagsEachThreshold(t *testing.T) {
	s := domain.ScenarioInput{
		Price:          50,
		Cost:           35,
		ShippingFee:    5,
		CommissionRate: 0.05,
		SalesVolume:    100,
		ReturnQuantity: 30,
		AdEnabled:      true,
		AdUnitPrice:    12,
	}

	warnings := Assess(s, Compute(s, 100), DefaultThresholds())

	assert.ElementsMatch(t, []WarningCode{
		WarnLowProfit,
		WarnHighRefund,
		WarnHighCost,
		WarnHighAdCost,
		WarnBidAboveBreakEven,
	}, codes(warnings))
	for _, w := range warnings {
		assert.NotEmpty(t, w.Message)
	}
}

func TestAssess_ZeroRevenueSkipsRatios(t *testing.T) {
	s := domain.ScenarioInput{Cost: 10}

	warnings := Assess(s, Compute(s, 0), DefaultThresholds())
	assert.Equal(t, []WarningCode{WarnLowProfit}, codes(warnings))
}

func TestAssess_CustomThresholds(t *testing.T) {
	s := referenceScenario()
	r := Compute(s, 100)

	strict := DefaultThresholds()
	strict.LowProfit = 0.5

	assert.Contains(t, codes(Assess(s, r, strict)), WarnLowProfit)
}

package profit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitgo/internal/domain"
)

func TestExplain_ReferenceScenario(t *testing.T) {
	s := referenceScenario()
	trace := Explain(s, Compute(s, 100))

	require.Len(t, trace.Sections, 5)

	got, ok := trace.Lookup("Revenue", "Revenue")
	require.True(t, ok)
	assert.Equal(t, "100 × 100.00 = 10000.00", got)

	got, ok = trace.Lookup("Cost", domain.CostAd.Label())
	require.True(t, ok)
	assert.Equal(t, "100 × 2.00 = 200.00", got)

	got, ok = trace.Lookup("Order analysis", "Refund rate")
	require.True(t, ok)
	assert.Equal(t, "10 ÷ 100 × 100% = 10.00%", got)

	got, ok = trace.Lookup("Break-even", "Break-even ad bid")
	require.True(t, ok)
	assert.Contains(t, got, "= 32.00")

	got, ok = trace.Lookup("Break-even", "Current ROI")
	require.True(t, ok)
	assert.Equal(t, "100.00 ÷ 2.00 = 50.00", got)
}

func TestExplain_AdsDisabled(t *testing.T) {
	s := referenceScenario()
	s.AdEnabled = false
	trace := Explain(s, Compute(s, 100))

	for _, item := range []string{domain.CostAd.Label(), domain.CostAdRefundLoss.Label()} {
		got, ok := trace.Lookup("Cost", item)
		require.True(t, ok)
		assert.Equal(t, "advertising disabled", got)
	}

	got, ok := trace.Lookup("Break-even", "Max ad investment")
	require.True(t, ok)
	assert.Equal(t, "advertising disabled", got)
}

func TestTrace_LookupMissing(t *testing.T) {
	trace := Explain(referenceScenario(), Compute(referenceScenario(), 1))

	_, ok := trace.Lookup("Revenue", "Nope")
	assert.False(t, ok)
	_, ok = trace.Lookup("Nope", "Revenue")
	assert.False(t, ok)
}

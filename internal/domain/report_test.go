package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostBreakdown_TotalAndLookup(t *testing.T) {
	b := CostBreakdown{
		{Category: CostProduct, Amount: 5500},
		{Category: CostShipping, Amount: 1000},
		{Category: CostCommission, Amount: 300},
	}

	assert.InDelta(t, 6800, b.Total(), 1e-9)
	assert.True(t, b.Has(CostShipping))
	assert.False(t, b.Has(CostAd))

	amount, ok := b.Amount(CostCommission)
	assert.True(t, ok)
	assert.Equal(t, 300.0, amount)
}

func TestCostCategory_Label(t *testing.T) {
	assert.Equal(t, "广告费用", CostAd.Label())
	assert.Equal(t, "custom", CostCategory("custom").Label())
	assert.True(t, CostAdRefundLoss.IsAdvertising())
	assert.False(t, CostCommission.IsAdvertising())
}

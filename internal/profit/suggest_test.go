package profit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestAdBids(t *testing.T) {
	got := SuggestAdBids(100, 0.03)

	assert.InDelta(t, 19.4, got.Ceiling, delta)
	assert.InDelta(t, 5.82, got.Conservative, delta)
	assert.InDelta(t, 11.64, got.Moderate, delta)
	assert.InDelta(t, 17.46, got.Aggressive, delta)
}

func TestCommissionSchedule_Rate(t *testing.T) {
	schedule := CommissionSchedule{"general": 0.03, "digital": 0.05}

	category, rate := schedule.Rate(" Digital ")
	assert.Equal(t, "digital", category)
	assert.Equal(t, 0.05, rate)

	category, rate = schedule.Rate("furniture")
	assert.Equal(t, DefaultCategory, category)
	assert.Equal(t, 0.03, rate)
}

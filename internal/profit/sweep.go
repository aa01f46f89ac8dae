package profit

import (
	"errors"
	"fmt"
	"math"

	"profitgo/internal/domain"
)

// MaxSweepPoints bounds the number of prices a single sweep evaluates.
const MaxSweepPoints = 1000

var ErrInvalidSweep = errors.New("invalid price sweep")

type PricePoint struct {
	Price           float64 `json:"price"`
	Profit          float64 `json:"profit"`
	ProfitMarginPct float64 `json:"profit_margin_pct"`
}

// SweepPrice recomputes the report for every price from minPrice to maxPrice
// in steps of step, holding everything else in s fixed.
func SweepPrice(s domain.ScenarioInput, analyzedOrders int, minPrice, maxPrice, step float64) ([]PricePoint, error) {
	if minPrice >= maxPrice {
		return nil, fmt.Errorf("%w: min price %.2f must be below max price %.2f", ErrInvalidSweep, minPrice, maxPrice)
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: step must be positive", ErrInvalidSweep)
	}

	// a small tolerance keeps maxPrice in range despite accumulated rounding
	span := math.Floor((maxPrice-minPrice)/step + 1e-9)
	if math.IsNaN(span) || span+1 > MaxSweepPoints {
		return nil, fmt.Errorf("%w: range exceeds limit of %d points", ErrInvalidSweep, MaxSweepPoints)
	}
	count := int(span) + 1

	points := make([]PricePoint, 0, count)
	for i := 0; i < count; i++ {
		scenario := s
		scenario.Price = minPrice + float64(i)*step

		report := Compute(scenario, analyzedOrders)
		points = append(points, PricePoint{
			Price:           scenario.Price,
			Profit:          report.Profit,
			ProfitMarginPct: report.ProfitMarginPct,
		})
	}

	return points, nil
}

package profit

import (
	"fmt"

	"profitgo/internal/domain"
)

type WarningCode string

const (
	WarnLowProfit         WarningCode = "low_profit"
	WarnHighRefund        WarningCode = "high_refund"
	WarnHighCost          WarningCode = "high_cost"
	WarnHighAdCost        WarningCode = "high_ad_cost"
	WarnBidAboveBreakEven WarningCode = "bid_above_break_even"
)

// Thresholds are fractions: LowProfit 0.10 flags margins under 10%.
type Thresholds struct {
	LowProfit  float64
	HighRefund float64
	HighCost   float64
	HighAdCost float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		LowProfit:  0.10,
		HighRefund: 0.20,
		HighCost:   0.80,
		HighAdCost: 0.20,
	}
}

type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// Assess flags the parts of a report that cross the given thresholds.
// Ratios against revenue are skipped when revenue is zero.
func Assess(s domain.ScenarioInput, r domain.ProfitReport, t Thresholds) []Warning {
	var warnings []Warning

	if r.ProfitMarginPct < t.LowProfit*100 {
		warnings = append(warnings, Warning{
			Code:    WarnLowProfit,
			Message: fmt.Sprintf("profit margin %.2f%% is below %.2f%%", r.ProfitMarginPct, t.LowProfit*100),
		})
	}

	if refund := s.RefundRate(); refund > t.HighRefund {
		warnings = append(warnings, Warning{
			Code:    WarnHighRefund,
			Message: fmt.Sprintf("refund rate %.2f%% is above %.2f%%", refund*100, t.HighRefund*100),
		})
	}

	if r.Revenue != 0 {
		if ratio := r.TotalCost / r.Revenue; ratio > t.HighCost {
			warnings = append(warnings, Warning{
				Code:    WarnHighCost,
				Message: fmt.Sprintf("costs are %.2f%% of revenue, above %.2f%%", ratio*100, t.HighCost*100),
			})
		}
		if ratio := r.AdCost / r.Revenue; ratio > t.HighAdCost {
			warnings = append(warnings, Warning{
				Code:    WarnHighAdCost,
				Message: fmt.Sprintf("ad cost is %.2f%% of revenue, above %.2f%%", ratio*100, t.HighAdCost*100),
			})
		}
	}

	if s.AdEnabled && s.AdUnitPrice > r.BreakEvenAdBid {
		warnings = append(warnings, Warning{
			Code:    WarnBidAboveBreakEven,
			Message: fmt.Sprintf("ad bid %.2f exceeds break-even bid %.2f", s.AdUnitPrice, r.BreakEvenAdBid),
		})
	}

	return warnings
}

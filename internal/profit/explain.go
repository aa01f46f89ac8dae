package profit

import (
	"fmt"

	"profitgo/internal/domain"
)

const adsDisabled = "advertising disabled"

type TraceLine struct {
	Item    string `json:"item"`
	Formula string `json:"formula"`
}

type TraceSection struct {
	Title string      `json:"title"`
	Lines []TraceLine `json:"lines"`
}

// Trace re-derives every formula of a report with the actual numbers, for
// display next to the report.
type Trace struct {
	Sections []TraceSection `json:"sections"`
}

// Explain renders the formula trace for a report previously produced by
// Compute from the same scenario.
func Explain(s domain.ScenarioInput, r domain.ProfitReport) Trace {
	refundRate := s.RefundRate()

	orders := TraceSection{Title: "Order analysis", Lines: []TraceLine{
		{"Sales volume", fmt.Sprintf("%d", s.SalesVolume)},
		{"Return quantity", fmt.Sprintf("%d", s.ReturnQuantity)},
		{"Deal orders", fmt.Sprintf("%d", s.DealOrders)},
		{"Net deal orders", fmt.Sprintf("%d", s.NetDealOrders)},
		{"Refund rate", fmt.Sprintf("%d ÷ %d × 100%% = %.2f%%", s.ReturnQuantity, s.SalesVolume, r.RefundRatePct)},
		{"Instant refund rate", fmt.Sprintf("(%d - %d) ÷ %d × 100%% = %.2f%%",
			s.DealOrders, s.NetDealOrders, s.DealOrders, r.InstantRefundRatePct)},
	}}

	revenue := TraceSection{Title: "Revenue", Lines: []TraceLine{
		{"Revenue", fmt.Sprintf("%d × %.2f = %.2f", r.AnalyzedOrders, s.Price, r.Revenue)},
	}}

	productCost, _ := r.CostBreakdown.Amount(domain.CostProduct)
	shippingCost, _ := r.CostBreakdown.Amount(domain.CostShipping)
	commission, _ := r.CostBreakdown.Amount(domain.CostCommission)

	adCostLine := adsDisabled
	adLossLine := adsDisabled
	if s.AdEnabled {
		adCostLine = fmt.Sprintf("%d × %.2f = %.2f", r.AnalyzedOrders, s.AdUnitPrice, r.AdCost)
		adLossLine = fmt.Sprintf("%.2f × %.2f%% = %.2f", s.AdUnitPrice, refundRate*100, r.AdRefundLoss)
	}

	cost := TraceSection{Title: "Cost", Lines: []TraceLine{
		{domain.CostProduct.Label(), fmt.Sprintf("%d × (%.2f + %.2f) = %.2f", r.AnalyzedOrders, s.Cost, s.OtherCost, productCost)},
		{domain.CostShipping.Label(), fmt.Sprintf("%d × %.2f = %.2f", r.AnalyzedOrders, s.ShippingFee, shippingCost)},
		{domain.CostCommission.Label(), fmt.Sprintf("%.2f × %.4f = %.2f", r.Revenue, s.CommissionRate, commission)},
		{domain.CostAd.Label(), adCostLine},
		{domain.CostAdRefundLoss.Label(), adLossLine},
		{"Total cost", fmt.Sprintf("%.2f + %.2f + %.2f + %.2f + %.2f = %.2f",
			productCost, shippingCost, commission, r.AdCost, r.AdRefundLoss, r.TotalCost)},
	}}

	profit := TraceSection{Title: "Profit", Lines: []TraceLine{
		{"Profit", fmt.Sprintf("%.2f - %.2f = %.2f", r.Revenue, r.TotalCost, r.Profit)},
		{"Profit margin", fmt.Sprintf("(%.2f ÷ %.2f) × 100%% = %.2f%%", r.Profit, r.Revenue, r.ProfitMarginPct)},
	}}

	adBid := 0.0
	if s.AdEnabled {
		adBid = s.AdUnitPrice
	}
	breakEven := TraceSection{Title: "Break-even", Lines: []TraceLine{
		{"Break-even price", fmt.Sprintf("(%.2f + %.2f + %.2f + %.2f) ÷ (1 - %.4f) = %.2f",
			s.Cost, s.OtherCost, s.ShippingFee, adBid, s.CommissionRate, r.BreakEvenPrice)},
		{"Break-even ad bid", fmt.Sprintf("%.2f × (1 - %.4f) - %.2f - %.2f - %.2f = %.2f",
			s.Price, s.CommissionRate, s.Cost, s.OtherCost, s.ShippingFee, r.BreakEvenAdBid)},
	}}

	if ads := r.Advertising; ads != nil {
		breakEven.Lines = append(breakEven.Lines,
			TraceLine{"Max ad investment", fmt.Sprintf("%.2f × (1 - %.2f%%) = %.2f", r.BreakEvenAdBid, refundRate*100, ads.MaxAdInvestment)},
			TraceLine{"Break-even ROI", fmt.Sprintf("%.2f ÷ %.2f = %.2f", r.BreakEvenPrice, r.BreakEvenAdBid, ads.BreakEvenROI)},
		)
		if ads.CurrentROI != nil {
			breakEven.Lines = append(breakEven.Lines,
				TraceLine{"Current ROI", fmt.Sprintf("%.2f ÷ %.2f = %.2f", s.Price, s.AdUnitPrice, *ads.CurrentROI)})
		} else {
			breakEven.Lines = append(breakEven.Lines, TraceLine{"Current ROI", "no ad bid set"})
		}
	} else {
		breakEven.Lines = append(breakEven.Lines,
			TraceLine{"Max ad investment", adsDisabled},
			TraceLine{"Break-even ROI", adsDisabled},
			TraceLine{"Current ROI", adsDisabled},
		)
	}

	return Trace{Sections: []TraceSection{orders, revenue, cost, profit, breakEven}}
}

// Lookup finds the formula for item in the named section.
func (t Trace) Lookup(section, item string) (string, bool) {
	for _, s := range t.Sections {
		if s.Title != section {
			continue
		}
		for _, line := range s.Lines {
			if line.Item == item {
				return line.Formula, true
			}
		}
	}
	return "", false
}

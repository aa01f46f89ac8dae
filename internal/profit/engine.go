// Package profit turns a scenario into a profit report. Everything here is
// pure: no I/O, no shared state, safe to call from any goroutine.
package profit

import "profitgo/internal/domain"

// Compute builds the profit report for s scaled to analyzedOrders orders.
// It never validates its input; zero divisors yield zero instead of an error.
func Compute(s domain.ScenarioInput, analyzedOrders int) domain.ProfitReport {
	orders := float64(analyzedOrders)
	refundRate := s.RefundRate()

	revenue := orders * s.Price
	productCost := orders * (s.Cost + s.OtherCost)
	shippingCost := orders * s.ShippingFee
	commission := revenue * s.CommissionRate

	adCost := 0.0
	adRefundLoss := 0.0
	if s.AdEnabled && s.AdUnitPrice > 0 {
		adCost = orders * s.AdUnitPrice
		adRefundLoss = s.AdUnitPrice * refundRate
	}

	breakdown := domain.CostBreakdown{
		{Category: domain.CostProduct, Amount: productCost},
		{Category: domain.CostShipping, Amount: shippingCost},
		{Category: domain.CostCommission, Amount: commission},
	}
	if adCost > 0 {
		breakdown = append(breakdown, domain.CostItem{Category: domain.CostAd, Amount: adCost})
	}
	if adRefundLoss > 0 {
		breakdown = append(breakdown, domain.CostItem{Category: domain.CostAdRefundLoss, Amount: adRefundLoss})
	}

	totalCost := productCost + shippingCost + commission + adCost + adRefundLoss
	profit := revenue - totalCost

	profitPerOrder := 0.0
	if analyzedOrders != 0 {
		profitPerOrder = profit / orders
	}

	profitMargin := 0.0
	if revenue != 0 {
		profitMargin = profit / revenue * 100
	}

	breakEvenAdBid := BreakEvenAdBid(s)
	breakEvenPrice := BreakEvenPrice(s)

	var ads *domain.AdAnalysis
	if s.AdEnabled {
		ads = &domain.AdAnalysis{
			AdUnitPrice:     s.AdUnitPrice,
			MaxAdInvestment: breakEvenAdBid * (1 - refundRate),
		}
		if breakEvenAdBid > 0 {
			ads.BreakEvenROI = breakEvenPrice / breakEvenAdBid
		}
		if s.AdUnitPrice > 0 {
			roi := s.Price / s.AdUnitPrice
			ads.CurrentROI = &roi
		}
	}

	return domain.ProfitReport{
		ModelName:      s.ModelName,
		AnalyzedOrders: analyzedOrders,

		Revenue:         revenue,
		TotalCost:       totalCost,
		CostBreakdown:   breakdown,
		Profit:          profit,
		ProfitPerOrder:  profitPerOrder,
		ProfitMarginPct: profitMargin,

		BreakEvenPrice: breakEvenPrice,
		BreakEvenAdBid: breakEvenAdBid,

		AdCost:       adCost,
		AdRefundLoss: adRefundLoss,
		Advertising:  ads,

		SalesVolume:          s.SalesVolume,
		ReturnQuantity:       s.ReturnQuantity,
		DealOrders:           s.DealOrders,
		NetDealOrders:        s.NetDealOrders,
		RefundRatePct:        refundRate * 100,
		InstantRefundRatePct: s.InstantRefundRate() * 100,
	}
}

// BreakEvenAdBid is the highest per-order ad spend that still breaks even,
// ignoring refunds. Floored at 0 for products that lose money before ads.
func BreakEvenAdBid(s domain.ScenarioInput) float64 {
	bid := s.Price*(1-s.CommissionRate) - s.Cost - s.OtherCost - s.ShippingFee
	if bid < 0 {
		return 0
	}
	return bid
}

// BreakEvenPrice is the price at which profit is zero. When ads are enabled
// the raw ad unit price is folded into unit cost, not discounted by refunds.
func BreakEvenPrice(s domain.ScenarioInput) float64 {
	unitCost := s.Cost + s.OtherCost + s.ShippingFee
	if s.AdEnabled {
		unitCost += s.AdUnitPrice
	}
	if s.CommissionRate >= 1 {
		return 0
	}
	return unitCost / (1 - s.CommissionRate)
}

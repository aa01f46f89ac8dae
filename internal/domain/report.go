package domain

// CostCategory identifies one line of a cost breakdown.
type CostCategory string

const (
	CostProduct      CostCategory = "product_cost"
	CostShipping     CostCategory = "shipping"
	CostCommission   CostCategory = "commission"
	CostAd           CostCategory = "ad_cost"
	CostAdRefundLoss CostCategory = "ad_refund_loss"
)

var costLabels = map[CostCategory]string{
	CostProduct:      "商品成本",
	CostShipping:     "运费",
	CostCommission:   "平台扣点",
	CostAd:           "广告费用",
	CostAdRefundLoss: "退款广告损失",
}

// Label returns the display label sellers see in reports.
func (c CostCategory) Label() string {
	if label, ok := costLabels[c]; ok {
		return label
	}
	return string(c)
}

// IsAdvertising reports whether the category only exists when ads run.
func (c CostCategory) IsAdvertising() bool {
	return c == CostAd || c == CostAdRefundLoss
}

type CostItem struct {
	Category CostCategory `json:"category"`
	Amount   float64      `json:"amount"`
}

// CostBreakdown keeps cost lines in a stable display order.
type CostBreakdown []CostItem

func (b CostBreakdown) Total() float64 {
	var total float64
	for _, item := range b {
		total += item.Amount
	}
	return total
}

func (b CostBreakdown) Amount(category CostCategory) (float64, bool) {
	for _, item := range b {
		if item.Category == category {
			return item.Amount, true
		}
	}
	return 0, false
}

func (b CostBreakdown) Has(category CostCategory) bool {
	_, ok := b.Amount(category)
	return ok
}

// AdAnalysis is present on a report only when advertising is enabled.
type AdAnalysis struct {
	AdUnitPrice     float64 `json:"ad_unit_price"`
	MaxAdInvestment float64 `json:"max_ad_investment"`
	BreakEvenROI    float64 `json:"break_even_roi"`

	// nil unless a positive ad unit price was set
	CurrentROI *float64 `json:"current_roi,omitempty"`
}

// ProfitReport is the result of one engine run. Percentages are already
// multiplied by 100.
type ProfitReport struct {
	ModelName      string `json:"model_name"`
	AnalyzedOrders int    `json:"analyzed_orders"`

	Revenue         float64       `json:"revenue"`
	TotalCost       float64       `json:"total_cost"`
	CostBreakdown   CostBreakdown `json:"cost_breakdown"`
	Profit          float64       `json:"profit"`
	ProfitPerOrder  float64       `json:"profit_per_order"`
	ProfitMarginPct float64       `json:"profit_margin_pct"`

	BreakEvenPrice float64 `json:"break_even_price"`
	BreakEvenAdBid float64 `json:"break_even_ad_bid"`

	AdCost       float64     `json:"ad_cost"`
	AdRefundLoss float64     `json:"ad_refund_loss"`
	Advertising  *AdAnalysis `json:"advertising,omitempty"`

	// Echoed cohort fields for display
	SalesVolume          int     `json:"sales_volume"`
	ReturnQuantity       int     `json:"return_quantity"`
	DealOrders           int     `json:"deal_orders"`
	NetDealOrders        int     `json:"net_deal_orders"`
	RefundRatePct        float64 `json:"refund_rate_pct"`
	InstantRefundRatePct float64 `json:"instant_refund_rate_pct"`
}

func (r ProfitReport) AdEnabled() bool {
	return r.Advertising != nil
}

package domain

// ScenarioInput holds the commercial parameters of one product or campaign
// scenario. It is a plain value: callers build it with a composite literal
// and nothing here checks that the fields are plausible together.
type ScenarioInput struct {
	ModelName string `json:"model_name"`

	// Per-unit currency amounts
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	OtherCost   float64 `json:"other_cost"`
	ShippingFee float64 `json:"shipping_fee"`

	// Platform's cut of revenue, as a fraction in [0,1)
	CommissionRate float64 `json:"commission_rate"`

	// Observed order cohort. NetDealOrders <= DealOrders <= SalesVolume is
	// expected but not enforced.
	SalesVolume    int `json:"sales_volume"`
	ReturnQuantity int `json:"return_quantity"`
	DealOrders     int `json:"deal_orders"`
	NetDealOrders  int `json:"net_deal_orders"`

	// Ad cost charged per analysed order, only when AdEnabled
	AdUnitPrice float64 `json:"ad_unit_price"`
	AdEnabled   bool    `json:"ad_enabled"`
}

// RefundRate is ReturnQuantity / SalesVolume, or 0 for an empty cohort.
func (s ScenarioInput) RefundRate() float64 {
	if s.SalesVolume == 0 {
		return 0
	}
	return float64(s.ReturnQuantity) / float64(s.SalesVolume)
}

// InstantRefundRate is the share of deal orders refunded before shipment,
// or 0 when there are no deal orders.
func (s ScenarioInput) InstantRefundRate() float64 {
	if s.DealOrders == 0 {
		return 0
	}
	return float64(s.DealOrders-s.NetDealOrders) / float64(s.DealOrders)
}

// NormalizeCommissionRate treats values above 1 as a percentage (3 means 3%)
// and returns the fraction.
func NormalizeCommissionRate(rate float64) float64 {
	if rate > 1 {
		return rate / 100
	}
	return rate
}

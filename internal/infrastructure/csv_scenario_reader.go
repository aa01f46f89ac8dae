package infrastructure

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"profitgo/internal/domain"
)

// Cohort defaults applied when a batch row leaves the column blank.
const (
	DefaultSalesVolume    = 100
	DefaultReturnQuantity = 10
	DefaultDealOrders     = 95
	DefaultNetDealOrders  = 85
)

// ReadScenarios parses a header-led CSV of scenarios. A bad row is reported
// on its row; only an unreadable header or stream fails the call.
func ReadScenarios(r io.Reader) ([]domain.BatchRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty batch: %w", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("read batch header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[name] = i
	}

	var rows []domain.BatchRow
	for index := 1; ; index++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rows = append(rows, domain.BatchRow{Index: index, Err: fmt.Errorf("row %d: %w", index, err)})
				continue
			}
			return nil, fmt.Errorf("read batch row %d: %w", index, err)
		}

		row := csvRow{columns: columns, values: record}
		scenario, err := row.scenario(index)
		rows = append(rows, domain.BatchRow{Index: index, Scenario: scenario, Err: err})
	}

	return rows, nil
}

type csvRow struct {
	columns map[string]int
	values  []string
}

func (r csvRow) get(names ...string) string {
	for _, name := range names {
		if i, ok := r.columns[name]; ok && i < len(r.values) {
			if v := strings.TrimSpace(r.values[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

func (r csvRow) scenario(index int) (domain.ScenarioInput, error) {
	var errs []error

	number := func(name string, fallback float64) float64 {
		raw := r.get(name)
		if raw == "" {
			return fallback
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s: %q is not a number", name, raw))
			return fallback
		}
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s: %q must not be negative", name, raw))
		}
		return v
	}
	whole := func(name string, fallback int) int {
		raw := r.get(name)
		if raw == "" {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			// accept spreadsheet exports such as "100.0"
			f, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil || f != float64(int(f)) {
				errs = append(errs, fmt.Errorf("%s: %q is not a whole number", name, raw))
				return fallback
			}
			v = int(f)
		}
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s: %q must not be negative", name, raw))
		}
		return v
	}

	modelName := r.get("model_name")
	if modelName == "" {
		modelName = fmt.Sprintf("SKU-%d", index)
	}

	adUnitPrice := number("ad_deal_price", 0)
	if raw := r.get("ad_unit_price"); raw != "" {
		adUnitPrice = number("ad_unit_price", 0)
	}

	scenario := domain.ScenarioInput{
		ModelName:      modelName,
		Price:          number("price", 0),
		Cost:           number("cost", 0),
		OtherCost:      number("other_cost", 0),
		ShippingFee:    number("shipping_fee", 0),
		CommissionRate: domain.NormalizeCommissionRate(number("commission_rate", 0)),
		SalesVolume:    whole("sales_volume", DefaultSalesVolume),
		ReturnQuantity: whole("return_quantity", DefaultReturnQuantity),
		DealOrders:     whole("deal_orders", DefaultDealOrders),
		NetDealOrders:  whole("net_deal_orders", DefaultNetDealOrders),
		AdUnitPrice:    adUnitPrice,
		AdEnabled:      parseFlag(r.get("ad_enabled")),
	}

	if scenario.CommissionRate >= 1 {
		errs = append(errs, fmt.Errorf("commission_rate: %.4f must be below 100%%", scenario.CommissionRate))
	}

	if len(errs) > 0 {
		return scenario, fmt.Errorf("row %d: %w: %w", index, domain.ErrInvalidInput, errors.Join(errs...))
	}
	return scenario, nil
}

func parseFlag(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on", "是":
		return true
	}
	return false
}

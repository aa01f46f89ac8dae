package domain

import (
	"strings"
	"time"
)

// RecordIDLayout formats history IDs from their creation time. Two records
// created within the same second share an ID.
const RecordIDLayout = "20060102_150405"

func NewRecordID(t time.Time) string {
	return t.Format(RecordIDLayout)
}

// represents one archived analysis
type HistoryRecord struct {
	ID        string        `json:"analysis_id"`
	Timestamp time.Time     `json:"timestamp"`
	Scenario  ScenarioInput `json:"input_data"`
	Report    ProfitReport  `json:"result"`
	CreatedBy string        `json:"created_by"`
}

// represents filters for querying history
type HistoryFilter struct {
	ModelName string     `json:"model_name,omitempty"`
	MinProfit *float64   `json:"min_profit,omitempty"`
	MaxProfit *float64   `json:"max_profit,omitempty"`
	DateFrom  *time.Time `json:"date_from,omitempty"`
	DateTo    *time.Time `json:"date_to,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

// Matches applies every set criterion. Bounds are inclusive and the model
// name match is a case-insensitive substring test.
func (f HistoryFilter) Matches(record HistoryRecord) bool {
	if f.ModelName != "" {
		if !strings.Contains(strings.ToLower(record.Scenario.ModelName), strings.ToLower(f.ModelName)) {
			return false
		}
	}
	if f.DateFrom != nil && record.Timestamp.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && record.Timestamp.After(*f.DateTo) {
		return false
	}
	if f.MinProfit != nil && record.Report.Profit < *f.MinProfit {
		return false
	}
	if f.MaxProfit != nil && record.Report.Profit > *f.MaxProfit {
		return false
	}
	return true
}

// represents a paginated history query result
type HistoryResponse struct {
	Data    []HistoryRecord `json:"data"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	HasMore bool            `json:"has_more"`
}

const DefaultPageLimit = 100

// Paginate slices records using the filter's limit and offset.
func Paginate(records []HistoryRecord, limit, offset int) HistoryResponse {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	total := len(records)
	start := offset
	end := offset + limit

	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	page := []HistoryRecord{}
	if start < end {
		page = records[start:end]
	}

	return HistoryResponse{
		Data:    page,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: end < total,
	}
}

type HistorySummary struct {
	TotalCount   int            `json:"total_count"`
	Earliest     *time.Time     `json:"earliest,omitempty"`
	Latest       *time.Time     `json:"latest,omitempty"`
	LatestRecord *HistoryRecord `json:"latest_analysis,omitempty"`
}

type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
)

// ProfitTrend lists archived profits in chronological order.
type ProfitTrend struct {
	Dates         []string       `json:"dates"`
	Profits       []float64      `json:"profits"`
	Models        []string       `json:"models"`
	Direction     TrendDirection `json:"trend_direction"`
	AverageProfit float64        `json:"avg_profit"`
}

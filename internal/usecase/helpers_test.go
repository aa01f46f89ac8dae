package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"profitgo/internal/domain"
	"profitgo/internal/infrastructure"
	"profitgo/internal/profit"
	"profitgo/pkg/logger"
	"profitgo/pkg/metrics"
)

type fakeSink struct {
	records []domain.HistoryRecord
	date    time.Time
	err     error
}

func (f *fakeSink) Export(_ context.Context, records []domain.HistoryRecord, date time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.records = records
	f.date = date
	return nil
}

var errSinkDown = errors.New("sink down")

// steppingClock returns start, start+step, start+2*step, ...
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(step)
		return now
	}
}

func newTestServices(t *testing.T, sink domain.ReportSink) (*AnalysisService, *HistoryService, *metrics.Metrics) {
	t.Helper()

	log := logger.Discard()
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	repo := infrastructure.NewMemoryHistoryRepository(log)

	history := NewHistoryService(repo, sink, log, m)
	history.SetClock(steppingClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), time.Hour))

	schedule := profit.CommissionSchedule{"general": 0.03, "digital": 0.05}
	analysis := NewAnalysisService(history, profit.DefaultThresholds(), schedule, log, m, 3, 50)

	return analysis, history, m
}

func scenario(model string, price float64) domain.ScenarioInput {
	return domain.ScenarioInput{
		ModelName:      model,
		Price:          price,
		Cost:           50,
		OtherCost:      5,
		ShippingFee:    10,
		CommissionRate: 0.03,
		SalesVolume:    100,
		ReturnQuantity: 10,
		DealOrders:     95,
		NetDealOrders:  85,
		AdUnitPrice:    2,
		AdEnabled:      true,
	}
}

package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"profitgo/internal/domain"
	"profitgo/internal/profit"
	"profitgo/pkg/logger"
	"profitgo/pkg/metrics"
)

type AnalysisRequest struct {
	Scenario  domain.ScenarioInput
	Orders    int
	Save      bool
	CreatedBy string
}

// Analysis is a computed report with everything shown next to it
type Analysis struct {
	Report   domain.ProfitReport `json:"report"`
	Trace    profit.Trace        `json:"calculation_details"`
	Warnings []profit.Warning    `json:"warnings"`
	RecordID string              `json:"analysis_id,omitempty"`
}

type BatchItem struct {
	Index     int                  `json:"index"`
	ModelName string               `json:"model_name"`
	Report    *domain.ProfitReport `json:"report,omitempty"`
	Warnings  []profit.Warning     `json:"warnings,omitempty"`
	RecordID  string               `json:"analysis_id,omitempty"`
	Error     string               `json:"error,omitempty"`
}

type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

type AnalysisService struct {
	history      *HistoryService
	thresholds   profit.Thresholds
	commissions  profit.CommissionSchedule
	logger       *logger.Logger
	metrics      *metrics.Metrics
	workerPool   int
	maxBatchRows int
}

func NewAnalysisService(
	history *HistoryService,
	thresholds profit.Thresholds,
	commissions profit.CommissionSchedule,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	workerPool, maxBatchRows int,
) *AnalysisService {
	if workerPool <= 0 {
		workerPool = 1
	}
	return &AnalysisService{
		history:      history,
		thresholds:   thresholds,
		commissions:  commissions,
		logger:       logger,
		metrics:      metrics,
		workerPool:   workerPool,
		maxBatchRows: maxBatchRows,
	}
}

// Analyze computes, explains and assesses one scenario, archiving it when
// the request asks for it.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error) {
	report := profit.Compute(req.Scenario, req.Orders)
	s.metrics.RecordComputation("single", req.Scenario.AdEnabled)

	analysis := &Analysis{
		Report:   report,
		Trace:    profit.Explain(req.Scenario, report),
		Warnings: profit.Assess(req.Scenario, report, s.thresholds),
	}

	if req.Save {
		record, err := s.history.Record(ctx, req.Scenario, report, req.CreatedBy)
		if err != nil {
			return nil, err
		}
		analysis.RecordID = record.ID
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"model_name": req.Scenario.ModelName,
		"orders":     req.Orders,
		"profit":     report.Profit,
		"warnings":   len(analysis.Warnings),
		"saved":      req.Save,
	}).Info("Analyzed scenario")

	return analysis, nil
}

func (s *AnalysisService) Sweep(ctx context.Context, scenario domain.ScenarioInput, orders int, minPrice, maxPrice, step float64) ([]profit.PricePoint, error) {
	points, err := profit.SweepPrice(scenario, orders, minPrice, maxPrice, step)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordComputation("sweep", scenario.AdEnabled)

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"model_name": scenario.ModelName,
		"points":     len(points),
	}).Debug("Swept price range")

	return points, nil
}

// AnalyzeBatch computes every valid row on the worker pool. Items come back
// in input order; rows that failed to parse are reported, not computed.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, rows []domain.BatchRow, orders int, save bool, createdBy string) (*BatchResult, error) {
	if s.maxBatchRows > 0 && len(rows) > s.maxBatchRows {
		return nil, fmt.Errorf("batch has %d rows, limit is %d: %w", len(rows), s.maxBatchRows, domain.ErrInvalidInput)
	}

	start := time.Now()
	log := s.logger.WithContext(ctx)
	items := make([]BatchItem, len(rows))

	jobs := make(chan int, len(rows))

	var wg sync.WaitGroup
	for i := 0; i < s.workerPool; i++ {
		wg.Go(func() {
			for idx := range jobs {
				items[idx] = s.analyzeRow(rows[idx], orders)
			}
		})
	}

	for idx := range rows {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	// saved sequentially so insertion order matches input order
	var batchTime time.Time
	if save {
		batchTime = s.history.now()
	}
	result := &BatchResult{Items: items}
	for idx := range items {
		item := &items[idx]
		if item.Error == "" && save {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			record, err := s.history.RecordBatchItem(ctx, batchTime, item.Index, rows[idx].Scenario, *item.Report, createdBy)
			if err != nil {
				return nil, err
			}
			item.RecordID = record.ID
		}

		if item.Error == "" {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	s.metrics.RecordBatchRows("success", result.Succeeded)
	s.metrics.RecordBatchRows("failed", result.Failed)
	s.metrics.RecordBatch(time.Since(start))

	log.WithFields(map[string]any{
		"rows":      len(rows),
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"saved":     save,
		"duration":  time.Since(start),
	}).Info("Batch analysis completed")

	return result, nil
}

func (s *AnalysisService) analyzeRow(row domain.BatchRow, orders int) BatchItem {
	item := BatchItem{Index: row.Index, ModelName: row.Scenario.ModelName}
	if row.Err != nil {
		item.Error = row.Err.Error()
		return item
	}

	report := profit.Compute(row.Scenario, orders)
	s.metrics.RecordComputation("batch", row.Scenario.AdEnabled)

	item.Report = &report
	item.Warnings = profit.Assess(row.Scenario, report, s.thresholds)
	return item
}

// CommissionRates returns the category schedule in effect
func (s *AnalysisService) CommissionRates() profit.CommissionSchedule {
	rates := make(profit.CommissionSchedule, len(s.commissions))
	for k, v := range s.commissions {
		rates[k] = v
	}
	return rates
}

// SuggestAdBids proposes ad bids for a price sold in category
func (s *AnalysisService) SuggestAdBids(category string, price float64) profit.AdBidSuggestion {
	resolved, rate := s.commissions.Rate(category)
	suggestion := profit.SuggestAdBids(price, rate)
	suggestion.Category = resolved
	return suggestion
}

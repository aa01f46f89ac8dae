package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"profitgo/internal/domain"
	"profitgo/internal/reporting"
	"profitgo/pkg/logger"
	"profitgo/pkg/metrics"
)

// HistoryService archives analyses and answers queries over the archive
type HistoryService struct {
	repo    domain.HistoryRepository
	sink    domain.ReportSink
	logger  *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewHistoryService creates a new history service; sink may be nil
func NewHistoryService(
	repo domain.HistoryRepository,
	sink domain.ReportSink,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *HistoryService {
	return &HistoryService{
		repo:    repo,
		sink:    sink,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// SetClock replaces the time source used for record IDs and timestamps.
func (s *HistoryService) SetClock(now func() time.Time) {
	s.now = now
}

// Record archives one analysis under an ID derived from the current second.
func (s *HistoryService) Record(ctx context.Context, scenario domain.ScenarioInput, report domain.ProfitReport, createdBy string) (*domain.HistoryRecord, error) {
	ts := s.now()
	return s.append(ctx, domain.NewRecordID(ts), ts, scenario, report, createdBy)
}

// RecordBatchItem archives one row of a batch. Rows share the batch's
// timestamp, so the row index is appended to keep IDs unique.
func (s *HistoryService) RecordBatchItem(ctx context.Context, batchTime time.Time, index int, scenario domain.ScenarioInput, report domain.ProfitReport, createdBy string) (*domain.HistoryRecord, error) {
	id := fmt.Sprintf("%s_%04d", domain.NewRecordID(batchTime), index)
	return s.append(ctx, id, batchTime, scenario, report, createdBy)
}

func (s *HistoryService) append(ctx context.Context, id string, ts time.Time, scenario domain.ScenarioInput, report domain.ProfitReport, createdBy string) (*domain.HistoryRecord, error) {
	record := domain.HistoryRecord{
		ID:        id,
		Timestamp: ts,
		Scenario:  scenario,
		Report:    report,
		CreatedBy: createdBy,
	}

	if err := s.repo.Append(ctx, record); err != nil {
		s.metrics.RecordHistoryOperation("append", "failed")
		s.logger.WithContext(ctx).WithError(err).WithField("analysis_id", id).Error("Failed to save analysis")
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	s.metrics.RecordHistoryOperation("append", "success")
	s.logger.WithContext(ctx).WithFields(map[string]any{
		"analysis_id": id,
		"model_name":  scenario.ModelName,
	}).Info("Saved analysis to history")

	return &record, nil
}

// List returns one page of records matching filter, in insertion order
func (s *HistoryService) List(ctx context.Context, filter domain.HistoryFilter) (*domain.HistoryResponse, error) {
	log := s.logger.WithContext(ctx)

	records, err := s.repo.Search(ctx, filter)
	if err != nil {
		s.metrics.RecordHistoryOperation("search", "failed")
		log.WithError(err).Error("Failed to search history")
		return nil, fmt.Errorf("failed to search history: %w", err)
	}
	s.metrics.RecordHistoryOperation("search", "success")

	response := domain.Paginate(records, filter.Limit, filter.Offset)

	log.WithFields(map[string]any{
		"model_name": filter.ModelName,
		"total":      response.Total,
		"returned":   len(response.Data),
	}).Debug("Listed history")

	return &response, nil
}

func (s *HistoryService) Get(ctx context.Context, id string) (*domain.HistoryRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.metrics.RecordHistoryOperation("get", "failed")
		return nil, err
	}
	s.metrics.RecordHistoryOperation("get", "success")
	return record, nil
}

// Delete removes a record, returning domain.ErrNotFound if it was absent
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.metrics.RecordHistoryOperation("delete", "failed")
		return fmt.Errorf("failed to delete history record: %w", err)
	}
	if !deleted {
		s.metrics.RecordHistoryOperation("delete", "missing")
		return fmt.Errorf("history record %s: %w", id, domain.ErrNotFound)
	}

	s.metrics.RecordHistoryOperation("delete", "success")
	s.logger.WithContext(ctx).WithField("analysis_id", id).Info("Deleted history record")
	return nil
}

func (s *HistoryService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		s.metrics.RecordHistoryOperation("clear", "failed")
		return fmt.Errorf("failed to clear history: %w", err)
	}

	s.metrics.RecordHistoryOperation("clear", "success")
	s.logger.WithContext(ctx).Warn("History cleared")
	return nil
}

func (s *HistoryService) Summary(ctx context.Context) (*domain.HistorySummary, error) {
	records, err := s.chronological(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.HistorySummary{TotalCount: len(records)}
	if len(records) == 0 {
		return summary, nil
	}

	earliest := records[0].Timestamp
	latest := records[len(records)-1]
	summary.Earliest = &earliest
	summary.Latest = &latest.Timestamp
	summary.LatestRecord = &latest

	return summary, nil
}

// Trend lists profits oldest first. Direction compares the newest profit
// against the oldest.
func (s *HistoryService) Trend(ctx context.Context) (*domain.ProfitTrend, error) {
	records, err := s.chronological(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("trend needs at least 2 records, have %d: %w", len(records), domain.ErrInsufficientHistory)
	}

	trend := &domain.ProfitTrend{
		Dates:   make([]string, 0, len(records)),
		Profits: make([]float64, 0, len(records)),
		Models:  make([]string, 0, len(records)),
	}

	var total float64
	for _, record := range records {
		trend.Dates = append(trend.Dates, record.Timestamp.Format("2006-01-02"))
		trend.Profits = append(trend.Profits, record.Report.Profit)
		trend.Models = append(trend.Models, record.Report.ModelName)
		total += record.Report.Profit
	}

	trend.Direction = domain.TrendDown
	if trend.Profits[len(trend.Profits)-1] > trend.Profits[0] {
		trend.Direction = domain.TrendUp
	}
	trend.AverageProfit = total / float64(len(records))

	return trend, nil
}

// ExportCSV renders every record matching filter, ignoring pagination
func (s *HistoryService) ExportCSV(ctx context.Context, filter domain.HistoryFilter) (string, error) {
	records, err := s.repo.Search(ctx, filter)
	if err != nil {
		s.metrics.RecordHistoryOperation("export_csv", "failed")
		return "", fmt.Errorf("failed to export history: %w", err)
	}

	s.metrics.RecordHistoryOperation("export_csv", "success")
	return reporting.RenderHistoryCSV(records), nil
}

// Export pushes the records archived on date (UTC day) to the report sink
// and returns how many were sent.
func (s *HistoryService) Export(ctx context.Context, date time.Time) (int, error) {
	if s.sink == nil {
		return 0, domain.ErrSinkNotConfigured
	}

	log := s.logger.WithContext(ctx)

	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)

	records, err := s.repo.Search(ctx, domain.HistoryFilter{DateFrom: &from, DateTo: &to})
	if err != nil {
		return 0, fmt.Errorf("failed to load records for export: %w", err)
	}

	if err := s.sink.Export(ctx, records, from); err != nil {
		s.metrics.RecordHistoryOperation("export", "failed")
		log.WithError(err).Error("Failed to export history")
		return 0, fmt.Errorf("failed to export history: %w", err)
	}

	s.metrics.RecordHistoryOperation("export", "success")
	log.WithFields(map[string]any{
		"date":    from.Format("2006-01-02"),
		"records": len(records),
	}).Info("Exported history")

	return len(records), nil
}

func (s *HistoryService) chronological(ctx context.Context) ([]domain.HistoryRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.metrics.RecordHistoryOperation("list", "failed")
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	s.metrics.RecordHistoryOperation("list", "success")

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}

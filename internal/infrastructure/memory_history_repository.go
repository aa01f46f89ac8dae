package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"profitgo/internal/domain"
	"profitgo/pkg/logger"
)

// implements domain.HistoryRepository in process memory
type MemoryHistoryRepository struct {
	data   map[string]domain.HistoryRecord
	order  []string
	mutex  sync.RWMutex
	logger *logger.Logger
}

// creates a new in-memory history repository
func NewMemoryHistoryRepository(logger *logger.Logger) *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		data:   make(map[string]domain.HistoryRecord),
		logger: logger,
	}
}

func (r *MemoryHistoryRepository) Append(ctx context.Context, record domain.HistoryRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.data[record.ID]; exists {
		return fmt.Errorf("append %s: %w", record.ID, domain.ErrDuplicateID)
	}

	r.data[record.ID] = cloneRecord(record)
	r.order = append(r.order, record.ID)

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"analysis_id": record.ID,
		"model_name":  record.Scenario.ModelName,
	}).Debug("Stored history record in memory")

	return nil
}

func (r *MemoryHistoryRepository) List(ctx context.Context) ([]domain.HistoryRecord, error) {
	return r.Search(ctx, domain.HistoryFilter{})
}

func (r *MemoryHistoryRepository) GetByID(ctx context.Context, id string) (*domain.HistoryRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	record, exists := r.data[id]
	if !exists {
		return nil, fmt.Errorf("history record %s: %w", id, domain.ErrNotFound)
	}

	found := cloneRecord(record)
	return &found, nil
}

func (r *MemoryHistoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.data[id]; !exists {
		return false, nil
	}

	delete(r.data, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return true, nil
}

func (r *MemoryHistoryRepository) Search(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	records := make([]domain.HistoryRecord, 0, len(r.order))
	for _, id := range r.order {
		record := r.data[id]
		if filter.Matches(record) {
			records = append(records, cloneRecord(record))
		}
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"stored":  len(r.order),
		"matched": len(records),
	}).Debug("Searched history in memory")

	return records, nil
}

func (r *MemoryHistoryRepository) Clear(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.data = make(map[string]domain.HistoryRecord)
	r.order = nil
	return nil
}

// cloneRecord copies the slice and pointer fields so callers never share
// state with the store.
func cloneRecord(record domain.HistoryRecord) domain.HistoryRecord {
	out := record
	out.Report.CostBreakdown = append(domain.CostBreakdown(nil), record.Report.CostBreakdown...)
	if ads := record.Report.Advertising; ads != nil {
		copied := *ads
		if ads.CurrentROI != nil {
			roi := *ads.CurrentROI
			copied.CurrentROI = &roi
		}
		out.Report.Advertising = &copied
	}
	return out
}

package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"profitgo/internal/domain"
	"profitgo/pkg/logger"
)

// JSONHistoryRepository keeps the whole history as one JSON array on disk.
// Every mutation reads the file, changes it and writes it back in full.
type JSONHistoryRepository struct {
	path   string
	mutex  sync.Mutex
	logger *logger.Logger
}

func NewJSONHistoryRepository(path string, logger *logger.Logger) (*JSONHistoryRepository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	return &JSONHistoryRepository{
		path:   path,
		logger: logger,
	}, nil
}

func (r *JSONHistoryRepository) Append(ctx context.Context, record domain.HistoryRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	records := r.load(ctx)
	for _, existing := range records {
		if existing.ID == record.ID {
			return fmt.Errorf("append %s: %w", record.ID, domain.ErrDuplicateID)
		}
	}

	records = append(records, record)
	if err := r.save(records); err != nil {
		return err
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"analysis_id": record.ID,
		"total":       len(records),
	}).Debug("Appended history record")

	return nil
}

func (r *JSONHistoryRepository) List(ctx context.Context) ([]domain.HistoryRecord, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.load(ctx), nil
}

func (r *JSONHistoryRepository) GetByID(ctx context.Context, id string) (*domain.HistoryRecord, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, record := range r.load(ctx) {
		if record.ID == id {
			return &record, nil
		}
	}

	return nil, fmt.Errorf("history record %s: %w", id, domain.ErrNotFound)
}

func (r *JSONHistoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	records := r.load(ctx)
	kept := make([]domain.HistoryRecord, 0, len(records))
	for _, record := range records {
		if record.ID != id {
			kept = append(kept, record)
		}
	}

	if len(kept) == len(records) {
		return false, nil
	}

	if err := r.save(kept); err != nil {
		return false, err
	}
	return true, nil
}

func (r *JSONHistoryRepository) Search(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryRecord, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	records := r.load(ctx)
	matched := make([]domain.HistoryRecord, 0, len(records))
	for _, record := range records {
		if filter.Matches(record) {
			matched = append(matched, record)
		}
	}

	return matched, nil
}

func (r *JSONHistoryRepository) Clear(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.save([]domain.HistoryRecord{})
}

// load returns an empty history when the file is missing or unreadable;
// a damaged file is overwritten by the next successful mutation.
func (r *JSONHistoryRepository) load(ctx context.Context) []domain.HistoryRecord {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			r.logger.WithContext(ctx).WithError(err).WithField("path", r.path).Warn("Failed to read history file, treating as empty")
		}
		return []domain.HistoryRecord{}
	}

	var records []domain.HistoryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("path", r.path).Warn("History file is corrupt, treating as empty")
		return []domain.HistoryRecord{}
	}

	if records == nil {
		records = []domain.HistoryRecord{}
	}
	return records
}

func (r *JSONHistoryRepository) save(records []domain.HistoryRecord) error {
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".history-*.json")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}

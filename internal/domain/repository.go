package domain

import (
	"context"
	"time"
)

// HistoryRepository persists analysis records. Implementations keep
// insertion order for List and Search.
type HistoryRepository interface {
	Append(ctx context.Context, record HistoryRecord) error
	List(ctx context.Context) ([]HistoryRecord, error)
	GetByID(ctx context.Context, id string) (*HistoryRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, filter HistoryFilter) ([]HistoryRecord, error)
	Clear(ctx context.Context) error
}

// interface for pushing archived records to an external system
type ReportSink interface {
	Export(ctx context.Context, records []HistoryRecord, date time.Time) error
}

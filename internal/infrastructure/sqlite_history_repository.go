package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"profitgo/internal/domain"
	"profitgo/pkg/logger"
)

// SQLiteHistoryRepository stores each record as a row with the scenario and
// report kept as JSON next to the columns used for filtering.
type SQLiteHistoryRepository struct {
	db     *sql.DB
	mutex  sync.Mutex
	logger *logger.Logger
}

func NewSQLiteHistoryRepository(db *sql.DB, logger *logger.Logger) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db, logger: logger}
}

const selectHistoryColumns = `SELECT id, created_at, scenario_json, report_json, created_by FROM analysis_history`

func (r *SQLiteHistoryRepository) Append(ctx context.Context, record domain.HistoryRecord) error {
	scenario, err := json.Marshal(record.Scenario)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}
	report, err := json.Marshal(record.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM analysis_history WHERE id = ?`, record.ID).Scan(&exists)
	switch {
	case err == nil:
		return fmt.Errorf("append %s: %w", record.ID, domain.ErrDuplicateID)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("check history id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO analysis_history (id, created_at, model_name, profit, scenario_json, report_json, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UnixNano(),
		record.Scenario.ModelName,
		record.Report.Profit,
		string(scenario),
		string(report),
		record.CreatedBy,
	); err != nil {
		return fmt.Errorf("insert history record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}

	r.logger.WithContext(ctx).WithField("analysis_id", record.ID).Debug("Inserted history record")
	return nil
}

func (r *SQLiteHistoryRepository) List(ctx context.Context) ([]domain.HistoryRecord, error) {
	return r.Search(ctx, domain.HistoryFilter{})
}

func (r *SQLiteHistoryRepository) GetByID(ctx context.Context, id string) (*domain.HistoryRecord, error) {
	row := r.db.QueryRowContext(ctx, selectHistoryColumns+` WHERE id = ?`, id)

	record, err := scanHistoryRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("history record %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *SQLiteHistoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	res, err := r.db.ExecContext(ctx, `DELETE FROM analysis_history WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete history record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete history record: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteHistoryRepository) Search(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryRecord, error) {
	var (
		where []string
		args  []any
	)
	nameFilter := domain.HistoryFilter{ModelName: filter.ModelName}

	if filter.DateFrom != nil {
		where = append(where, `created_at >= ?`)
		args = append(args, filter.DateFrom.UnixNano())
	}
	if filter.DateTo != nil {
		where = append(where, `created_at <= ?`)
		args = append(args, filter.DateTo.UnixNano())
	}
	if filter.MinProfit != nil {
		where = append(where, `profit >= ?`)
		args = append(args, *filter.MinProfit)
	}
	if filter.MaxProfit != nil {
		where = append(where, `profit <= ?`)
		args = append(args, *filter.MaxProfit)
	}

	query := selectHistoryColumns
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	records := []domain.HistoryRecord{}
	for rows.Next() {
		record, err := scanHistoryRecord(rows)
		if err != nil {
			return nil, err
		}
		// sqlite lower() folds ASCII only, so the name match runs in Go
		if !nameFilter.Matches(record) {
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return records, nil
}

func (r *SQLiteHistoryRepository) Clear(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM analysis_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistoryRecord(row rowScanner) (domain.HistoryRecord, error) {
	var (
		record    domain.HistoryRecord
		createdAt int64
		scenario  string
		report    string
	)

	if err := row.Scan(&record.ID, &createdAt, &scenario, &report, &record.CreatedBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record, err
		}
		return record, fmt.Errorf("scan history record: %w", err)
	}

	record.Timestamp = time.Unix(0, createdAt).UTC()
	if err := json.Unmarshal([]byte(scenario), &record.Scenario); err != nil {
		return record, fmt.Errorf("decode scenario %s: %w", record.ID, err)
	}
	if err := json.Unmarshal([]byte(report), &record.Report); err != nil {
		return record, fmt.Errorf("decode report %s: %w", record.ID, err)
	}

	return record, nil
}

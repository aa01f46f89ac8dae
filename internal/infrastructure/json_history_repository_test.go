package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitgo/internal/domain"
	"profitgo/pkg/logger"
)

func TestJSONHistoryRepository_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")

	first, err := NewJSONHistoryRepository(path, logger.Discard())
	require.NoError(t, err)
	rec := newRecord(0, "A-1", 10)
	require.NoError(t, first.Append(ctx, rec))

	second, err := NewJSONHistoryRepository(path, logger.Discard())
	require.NoError(t, err)
	records, err := second.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0])
}

func TestJSONHistoryRepository_DocumentShape(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")
	repo, err := NewJSONHistoryRepository(path, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, newRecord(0, "A-1", 10)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc []map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc, 1)
	for _, key := range []string{"analysis_id", "timestamp", "input_data", "result", "created_by"} {
		assert.Contains(t, doc[0], key)
	}
}

func TestJSONHistoryRepository_CorruptFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	var logs bytes.Buffer
	repo, err := NewJSONHistoryRepository(path, logger.NewWithOutput("warn", &logs))
	require.NoError(t, err)

	records, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Contains(t, logs.String(), "corrupt")

	_, err = repo.GetByID(ctx, "anything")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Append(ctx, newRecord(0, "A-1", 10)))
	records, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestJSONHistoryRepository_MissingFileIsEmpty(t *testing.T) {
	repo, err := NewJSONHistoryRepository(filepath.Join(t.TempDir(), "nested", "history.json"), logger.Discard())
	require.NoError(t, err)

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

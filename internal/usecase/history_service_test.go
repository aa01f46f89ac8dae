package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitgo/internal/domain"
	"profitgo/internal/profit"
)

func seed(t *testing.T, history *HistoryService, prices ...float64) []*domain.HistoryRecord {
	t.Helper()
	var out []*domain.HistoryRecord
	for i, price := range prices {
		s := scenario([]string{"Blue-01", "Red-02", "blue-03", "Green-04"}[i%4], price)
		rec, err := history.Record(context.Background(), s, profit.Compute(s, 100), "test")
		require.NoError(t, err)
		out = append(out, rec)
	}
	return out
}

func TestHistory_RecordDuplicateSecond(t *testing.T) {
	_, history, _ := newTestServices(t, nil)
	history.SetClock(func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) })

	s := scenario("X1", 100)
	_, err := history.Record(context.Background(), s, profit.Compute(s, 1), "")
	require.NoError(t, err)

	_, err = history.Record(context.Background(), s, profit.Compute(s, 1), "")
	assert.ErrorIs(t, err, domain.ErrDuplicateID)
}

func TestHistory_ListPaginates(t *testing.T) {
	_, history, _ := newTestServices(t, nil)
	seed(t, history, 90, 100, 110, 120, 130)

	page, err := history.List(context.Background(), domain.HistoryFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)

	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Data, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, "blue-03", page.Data[0].Scenario.ModelName)

	filtered, err := history.List(context.Background(), domain.HistoryFilter{ModelName: "blue"})
	require.NoError(t, err)
	assert.Equal(t, 3, filtered.Total)
}

func TestHistory_GetAndDelete(t *testing.T) {
	_, history, _ := newTestServices(t, nil)
	records := seed(t, history, 100)
	ctx := context.Background()

	require.NoError(t, history.Delete(ctx, records[0].ID))

	_, err := history.Get(ctx, records[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, history.Delete(ctx, records[0].ID), domain.ErrNotFound)
}

func TestHistory_SummaryAndClear(t *testing.T) {
	_, history, _ := newTestServices(t, nil)
	ctx := context.Background()

	empty, err := history.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalCount)
	assert.Nil(t, empty.LatestRecord)

	records := seed(t, history, 100, 110, 120)

	summary, err := history.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalCount)
	assert.Equal(t, records[0].Timestamp, *summary.Earliest)
	assert.Equal(t, records[2].Timestamp, *summary.Latest)
	assert.Equal(t, records[2].ID, summary.LatestRecord.ID)

	require.NoError(t, history.Clear(ctx))
	summary, err = history.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalCount)
}

func TestHistory_Trend(t *testing.T) {
	_, history, _ := newTestServices(t, nil)
	ctx := context.Background()

	seed(t, history, 100)
	_, err := history.Trend(ctx)
	assert.ErrorIs(t, err, domain.ErrInsufficientHistory)

	seed(t, history, 120, 90)
	trend, err := history.Trend(ctx)
	require.NoError(t, err)

	assert.Len(t, trend.Profits, 3)
	assert.Equal(t, []string{"2024-05-01", "2024-05-01", "2024-05-01"}, trend.Dates)
	assert.Equal(t, domain.TrendDown, trend.Direction)

	var sum float64
	for _, p := range trend.Profits {
		sum += p
	}
	assert.InDelta(t, sum/3, trend.AverageProfit, 1e-9)

	seed(t, history, 200)
	trend, err = history.Trend(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TrendUp, trend.Direction)
}

func TestHistory_ExportCSV(t *testing.T) {
	_, history, _ := newTestServices(t, nil)
	seed(t, history, 100, 110)

	out, err := history.ExportCSV(context.Background(), domain.HistoryFilter{ModelName: "red"})
	require.NoError(t, err)

	assert.Contains(t, out, "analysis_id,timestamp")
	assert.Contains(t, out, "Red-02")
	assert.NotContains(t, out, "Blue-01")
}

func TestHistory_ExportToSink(t *testing.T) {
	sink := &fakeSink{}
	_, history, _ := newTestServices(t, sink)
	seed(t, history, 100, 110)

	history.SetClock(func() time.Time { return time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC) })
	seed(t, history, 120)

	n, err := history.Export(context.Background(), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.Len(t, sink.records, 2)
	assert.Equal(t, "2024-05-01", sink.date.Format("2006-01-02"))
}

func TestHistory_ExportErrors(t *testing.T) {
	_, noSink, _ := newTestServices(t, nil)
	_, err := noSink.Export(context.Background(), time.Now())
	assert.ErrorIs(t, err, domain.ErrSinkNotConfigured)

	_, failing, _ := newTestServices(t, &fakeSink{err: errSinkDown})
	_, err = failing.Export(context.Background(), time.Now())
	assert.ErrorIs(t, err, errSinkDown)
}

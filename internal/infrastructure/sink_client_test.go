package infrastructure

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitgo/internal/domain"
	"profitgo/pkg/logger"
	"profitgo/pkg/metrics"
)

func TestSinkClient_ExportSignsPayload(t *testing.T) {
	var (
		body      []byte
		signature string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		signature = r.Header.Get("X-Signature")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	client := NewSinkClient(server.URL, "s3cret", time.Second, 0, logger.Discard(), m)

	records := []domain.HistoryRecord{newRecord(0, "A-1", 10)}
	require.NoError(t, client.Export(context.Background(), records, baseTime))

	assert.Equal(t, Sign("s3cret", body), signature)

	var payload SinkPayload
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "2024-05-01", payload.Date)
	assert.Equal(t, 1, payload.Count)
	assert.Equal(t, records[0].ID, payload.Records[0].ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SinkCalls.WithLabelValues("success")))
}

func TestSinkClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	client := NewSinkClient(server.URL, "", time.Second, 5, logger.Discard(), m)

	err := client.Export(context.Background(), nil, baseTime)
	assert.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SinkCalls.WithLabelValues("error_502")))
}

func TestSinkClient_NotConfigured(t *testing.T) {
	client := NewSinkClient("", "", time.Second, 0, logger.Discard(), metrics.NewWithRegistry(prometheus.NewRegistry()))
	assert.ErrorIs(t, client.Export(context.Background(), nil, baseTime), domain.ErrSinkNotConfigured)
}

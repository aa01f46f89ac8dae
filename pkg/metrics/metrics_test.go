package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordComputation_LabelsAdMode(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.RecordComputation("single", true)
	m.RecordComputation("single", false)
	m.RecordComputation("single", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProfitComputations.WithLabelValues("single", "advertised")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProfitComputations.WithLabelValues("single", "organic")))
}

func TestNewWithRegistry_IndependentRegistries(t *testing.T) {
	a := NewWithRegistry(prometheus.NewRegistry())
	b := NewWithRegistry(prometheus.NewRegistry())

	a.RecordHistoryOperation("append", "success")
	a.RecordBatchRows("failed", 3)
	b.RecordSinkCall("success", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.HistoryOperations.WithLabelValues("append", "success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(a.BatchRowsProcessed.WithLabelValues("failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.HistoryOperations.WithLabelValues("append", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.SinkCalls.WithLabelValues("success")))
}

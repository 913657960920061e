package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCounter(t *testing.T, v *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, v.WithLabelValues(labels...).Write(m))
	return m.GetCounter().GetValue()
}

func readGauge(t *testing.T, v *prometheus.GaugeVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, v.WithLabelValues(labels...).Write(m))
	return m.GetGauge().GetValue()
}

func readSummary(t *testing.T, v *prometheus.SummaryVec, labels ...string) (uint64, float64) {
	t.Helper()
	metric, ok := v.WithLabelValues(labels...).(prometheus.Metric)
	require.True(t, ok)
	m := &dto.Metric{}
	require.NoError(t, metric.Write(m))
	return m.GetSummary().GetSampleCount(), m.GetSummary().GetSampleSum()
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusSuccess, StatusOf(nil))
	assert.Equal(t, StatusError, StatusOf(errors.New("boom")))
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.RowsWritten("dim_teams", OpInsert, 3)
	r.LoadFinished("UPSERT", nil, time.Second)
	r.RuleEvaluated("duplicate_pbp_events", "pass", 0)
	assert.NoError(t, r.Flush())
}

func TestNewPrometheus_DefaultJob(t *testing.T) {
	p, err := NewPrometheus("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultJob, p.job)

	p, err = NewPrometheus("nightly", "")
	require.NoError(t, err)
	assert.Equal(t, "nightly", p.job)
}

func TestPrometheus_Records(t *testing.T) {
	p, err := NewPrometheus("", "")
	require.NoError(t, err)

	p.RowsWritten("fact_games", OpInsert, 84)
	p.RowsWritten("fact_games", OpInsert, 16)
	p.RowsWritten("fact_games", OpDelete, 5)
	assert.Equal(t, 100.0, readCounter(t, p.rows, "fact_games", OpInsert))
	assert.Equal(t, 5.0, readCounter(t, p.rows, "fact_games", OpDelete))

	p.LoadFinished("UPSERT", nil, 1500*time.Millisecond)
	p.LoadFinished("UPSERT", errors.New("x"), 500*time.Millisecond)
	count, sum := readSummary(t, p.duration, "UPSERT", StatusSuccess)
	assert.Equal(t, uint64(1), count)
	assert.InDelta(t, 1.5, sum, 1e-9)
	count, _ = readSummary(t, p.duration, "UPSERT", StatusError)
	assert.Equal(t, uint64(1), count)

	p.RuleEvaluated("games_missing_scores", "warning", 3)
	p.RuleEvaluated("games_missing_scores", "warning", 2)
	assert.Equal(t, 2.0, readGauge(t, p.findings, "games_missing_scores", "warning"))

	families, err := p.Registry().Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)
}

func TestPrometheus_FlushWithoutGateway(t *testing.T) {
	p, err := NewPrometheus("", "")
	require.NoError(t, err)
	assert.NoError(t, p.Flush())
}

func TestPrometheus_FlushPushesToGateway(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/metrics/job/nbaetl", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p, err := NewPrometheus("", srv.URL)
	require.NoError(t, err)
	p.RowsWritten("dim_teams", OpInsert, 30)

	require.NoError(t, p.Flush())
	assert.Equal(t, int32(1), hits.Load())
}

func TestPrometheus_FlushReportsGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, err := NewPrometheus("", srv.URL)
	require.NoError(t, err)
	p.RowsWritten("dim_teams", OpInsert, 1)

	err = p.Flush()
	require.Error(t, err)
	assert.Contains(t, err.Error(), srv.URL)
}

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultJob is the Pushgateway job name used when none is configured.
const DefaultJob = "nbaetl"

// Prometheus is a Recorder backed by client_golang collectors.
type Prometheus struct {
	gatewayURL string
	job        string
	reg        *prometheus.Registry

	rows     *prometheus.CounterVec // nbaetl_rows_total
	duration *prometheus.SummaryVec // nbaetl_load_duration_seconds
	findings *prometheus.GaugeVec   // nbaetl_validation_findings
}

// NewPrometheus builds a recorder on a fresh registry. An empty gatewayURL
// keeps the metrics in process and makes Flush a no-op.
func NewPrometheus(job, gatewayURL string) (*Prometheus, error) {
	if job == "" {
		job = DefaultJob
	}

	reg := prometheus.NewRegistry()

	rows := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nbaetl_rows_total",
			Help: "Rows inserted or deleted by the load engine, per table and operation.",
		},
		[]string{"table", "op"},
	)
	duration := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "nbaetl_load_duration_seconds",
			Help:       "Duration of load runs in seconds, per mode and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"mode", "status"},
	)
	findings := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nbaetl_validation_findings",
			Help: "Offending rows found by the last evaluation of each validation rule.",
		},
		[]string{"rule", "outcome"},
	)

	for name, c := range map[string]prometheus.Collector{
		"rows counter":     rows,
		"duration summary": duration,
		"findings gauge":   findings,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register %s: %w", name, err)
		}
	}

	return &Prometheus{
		gatewayURL: gatewayURL,
		job:        job,
		reg:        reg,
		rows:       rows,
		duration:   duration,
		findings:   findings,
	}, nil
}

func (p *Prometheus) RowsWritten(table, op string, n int64) {
	p.rows.WithLabelValues(table, op).Add(float64(n))
}

func (p *Prometheus) LoadFinished(mode string, err error, d time.Duration) {
	p.duration.WithLabelValues(mode, StatusOf(err)).Observe(d.Seconds())
}

func (p *Prometheus) RuleEvaluated(rule, outcome string, offending int) {
	p.findings.WithLabelValues(rule, outcome).Set(float64(offending))
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.reg
}

// Flush pushes the registry to the Pushgateway, replacing the job's group.
func (p *Prometheus) Flush() error {
	if p.gatewayURL == "" {
		return nil
	}
	if err := push.New(p.gatewayURL, p.job).Gatherer(p.reg).Push(); err != nil {
		return fmt.Errorf("metrics: push to %s: %w", p.gatewayURL, err)
	}
	return nil
}

var _ Recorder = (*Prometheus)(nil)

package mapping

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the mapping engine.
type Metrics struct {
	OperatorsTotal *prometheus.CounterVec
	SkippedTotal   prometheus.Counter
	RunsTotal      *prometheus.CounterVec
	ErrorsTotal    *prometheus.CounterVec
	Duration       *prometheus.HistogramVec
	OutputTerms    prometheus.Gauge
}

// NewMetrics creates the engine metrics and registers them with reg. A nil
// reg leaves them unregistered, which is convenient for one-shot runs that
// never export.
//
// Metrics:
//   - f2q_mapping_operators_total{kind} - operators encoded
//   - f2q_mapping_skipped_total - zero-coefficient operators skipped
//   - f2q_mapping_runs_total{encoding} - Map calls
//   - f2q_mapping_errors_total{encoding} - Map calls that failed
//   - f2q_mapping_duration_seconds{encoding} - Map wall time
//   - f2q_mapping_output_terms - Pauli terms in the last result
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperatorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "f2q_mapping_operators_total",
				Help: "Total number of fermionic operators encoded",
			},
			[]string{"kind"}, // "constant", "one_body", "two_body"
		),

		SkippedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "f2q_mapping_skipped_total",
				Help: "Total number of zero-coefficient operators skipped",
			},
		),

		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "f2q_mapping_runs_total",
				Help: "Total number of mapping runs",
			},
			[]string{"encoding"},
		),

		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "f2q_mapping_errors_total",
				Help: "Total number of failed mapping runs",
			},
			[]string{"encoding"},
		),

		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "f2q_mapping_duration_seconds",
				Help:    "Duration of mapping runs in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
			[]string{"encoding"},
		),

		OutputTerms: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "f2q_mapping_output_terms",
				Help: "Number of Pauli terms in the most recent result",
			},
		),
	}
}

func (m *Metrics) recordOperators(counts [3]int) {
	for kind, n := range counts {
		if n > 0 {
			m.OperatorsTotal.WithLabelValues(kindLabels[kind]).Add(float64(n))
		}
	}
}

var kindLabels = [3]string{"constant", "one_body", "two_body"}

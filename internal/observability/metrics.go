package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the echo
// classification pipeline.
type Metrics struct {
	ScansClassified prometheus.Counter
	ScanErrors      prometheus.Counter

	// GatesClassified counts gates by outcome: met, non_met, masked.
	GatesClassified *prometheus.CounterVec

	ScanDuration prometheus.Histogram
}

// NewMetrics creates and registers all classifier metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ScansClassified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "echo_report",
			Name:      "scans_classified_total",
			Help:      "Total scans classified successfully.",
		}),
		ScanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "echo_report",
			Name:      "scan_errors_total",
			Help:      "Total scans rejected with a configuration error.",
		}),
		GatesClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "echo_report",
			Name:      "gates_classified_total",
			Help:      "Gates classified by outcome.",
		}, []string{"outcome"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "echo_report",
			Name:      "scan_duration_seconds",
			Help:      "Wall time of one scan classification.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}

	prometheus.MustRegister(
		m.ScansClassified,
		m.ScanErrors,
		m.GatesClassified,
		m.ScanDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ScansClassified: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "echo_report", Name: "scans_classified_total"}),
		ScanErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "echo_report", Name: "scan_errors_total"}),
		GatesClassified: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "echo_report", Name: "gates_classified_total"}, []string{"outcome"}),
		ScanDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "echo_report", Name: "scan_duration_seconds"}),
	}
}

// ObserveResult records the gate outcome counts of one classified scan.
func (m *Metrics) ObserveResult(met, nonMet, masked int) {
	m.ScansClassified.Inc()
	m.GatesClassified.WithLabelValues("met").Add(float64(met))
	m.GatesClassified.WithLabelValues("non_met").Add(float64(nonMet))
	m.GatesClassified.WithLabelValues("masked").Add(float64(masked))
}

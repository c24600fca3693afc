package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus metrics.
type Metrics struct {
	CompositionsTotal       *prometheus.CounterVec
	CompositionDuration     prometheus.Histogram
	IndeterminateLinesTotal prometheus.Counter
	OverrideSavesTotal      *prometheus.CounterVec
	AggregationsTotal       *prometheus.CounterVec
}

// NewMetrics creates and registers the engine metrics.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		CompositionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldquote_compositions_total",
				Help: "Total number of service option compositions",
			},
			[]string{"result"},
		),
		CompositionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fieldquote_composition_duration_seconds",
				Help:    "Service option composition duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		IndeterminateLinesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fieldquote_indeterminate_lines_total",
				Help: "Total number of breakdown lines flagged as missing quantity data",
			},
		),
		OverrideSavesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldquote_override_saves_total",
				Help: "Total number of customization override save attempts",
			},
			[]string{"result"},
		),
		AggregationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldquote_package_aggregations_total",
				Help: "Total number of service package aggregations",
			},
			[]string{"result"},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.CompositionsTotal,
			m.CompositionDuration,
			m.IndeterminateLinesTotal,
			m.OverrideSavesTotal,
			m.AggregationsTotal,
		)
	}
	return m
}

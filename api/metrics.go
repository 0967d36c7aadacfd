package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	// Calculation metrics
	Calculations        *prometheus.CounterVec
	CalculationDuration *prometheus.HistogramVec

	// Simulation metrics
	MonteCarloTrials prometheus.Counter

	// Archive metrics
	ResultsArchived prometheus.Counter
	ProjectsSaved   prometheus.Counter
}

// NewMetrics creates and registers all metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Calculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roi_calculations_total",
				Help: "Total number of calculations by kind and outcome",
			},
			[]string{"kind", "outcome"}, // outcome: ok, client_error, error
		),

		CalculationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roi_calculation_duration_seconds",
				Help:    "Duration of calculations by kind",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),

		MonteCarloTrials: factory.NewCounter(prometheus.CounterOpts{
			Name: "roi_monte_carlo_trials_total",
			Help: "Total number of Monte Carlo trials executed",
		}),

		ResultsArchived: factory.NewCounter(prometheus.CounterOpts{
			Name: "roi_results_archived_total",
			Help: "Total number of results written to the archive",
		}),

		ProjectsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "roi_projects_saved_total",
			Help: "Total number of project saves",
		}),
	}
}

// newRegistry returns a registry with the Go runtime and process collectors.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// observe records one calculation.
func (m *Metrics) observe(kind string, start time.Time, err error) {
	m.CalculationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	m.Calculations.WithLabelValues(kind, outcome(err)).Inc()
}

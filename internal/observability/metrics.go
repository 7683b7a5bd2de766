package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// alerting pipeline.
type Metrics struct {
	SignalsConsumed prometheus.Counter
	SignalsRejected prometheus.Counter
	SignalsInWindow prometheus.Gauge
	PipelineRunning prometheus.Gauge

	// Evaluation metrics.
	EvaluationsTotal   prometheus.Counter
	EvaluationDuration prometheus.Histogram
	CandidateAlerts    *prometheus.CounterVec // label: rule
	AlertsPublished    prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SignalsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "water_health",
			Name:      "signals_consumed_total",
			Help:      "Total signal records read from the source topic.",
		}),
		SignalsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "water_health",
			Name:      "signals_rejected_total",
			Help:      "Total signal records skipped as structurally invalid.",
		}),
		SignalsInWindow: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "water_health",
			Name:      "signals_in_window",
			Help:      "Signals currently held in the rolling evaluation window.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "water_health",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		EvaluationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "water_health",
			Name:      "evaluations_total",
			Help:      "Total rule engine evaluation runs.",
		}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "water_health",
			Name:      "evaluation_duration_seconds",
			Help:      "Duration of one full rule engine pass including escalation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		CandidateAlerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "water_health",
			Name:      "candidate_alerts_total",
			Help:      "Candidate alerts produced per detection rule, before escalation.",
		}, []string{"rule"}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "water_health",
			Name:      "alerts_published_total",
			Help:      "Final alerts published to the sink topic after escalation.",
		}),
	}

	prometheus.MustRegister(
		m.SignalsConsumed,
		m.SignalsRejected,
		m.SignalsInWindow,
		m.PipelineRunning,
		m.EvaluationsTotal,
		m.EvaluationDuration,
		m.CandidateAlerts,
		m.AlertsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SignalsConsumed:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "water_health", Name: "signals_consumed_total"}),
		SignalsRejected:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "water_health", Name: "signals_rejected_total"}),
		SignalsInWindow:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "water_health", Name: "signals_in_window"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "water_health", Name: "pipeline_running"}),
		EvaluationsTotal:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "water_health", Name: "evaluations_total"}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "water_health", Name: "evaluation_duration_seconds"}),
		CandidateAlerts:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "water_health", Name: "candidate_alerts_total"}, []string{"rule"}),
		AlertsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "water_health", Name: "alerts_published_total"}),
	}
}

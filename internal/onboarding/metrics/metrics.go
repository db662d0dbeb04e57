package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the status determination core.
type Metrics struct {
	// Evaluation outcomes by final status and whether the status changed
	EvaluationOutcome *prometheus.CounterVec

	// Commit retries after a revision conflict
	CommitRetries prometheus.Counter

	// Evaluations that exhausted their retry budget
	CommitConflicts prometheus.Counter

	// Override requests by decision (applied / denied)
	OverrideRequests *prometheus.CounterVec

	// Drift detections from staleness polling
	DriftDetected prometheus.Counter

	// End-to-end latency of evaluate-and-commit
	EvaluateLatency prometheus.Histogram

	// Per-onboarding results inside batch re-evaluations, by result
	BatchResults *prometheus.CounterVec
}

// New creates a Metrics instance with all core metrics registered.
func New() *Metrics {
	return &Metrics{
		EvaluationOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_evaluation_outcomes_total",
			Help: "Total evaluation outcomes by final status and change flag",
		}, []string{"status", "changed"}),

		CommitRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onboard_commit_retries_total",
			Help: "Total evaluation retries caused by revision conflicts",
		}),

		CommitConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onboard_commit_conflicts_total",
			Help: "Total evaluations that surfaced a concurrency conflict after exhausting retries",
		}),

		OverrideRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_override_requests_total",
			Help: "Total override requests by decision",
		}, []string{"decision"}),

		DriftDetected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "onboard_config_drift_detected_total",
			Help: "Total configuration drift detections",
		}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "onboard_evaluate_duration_seconds",
			Help:    "Duration of evaluate-and-commit including collaborator reads",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		BatchResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "onboard_batch_results_total",
			Help: "Per-onboarding results inside batch re-evaluations",
		}, []string{"result"}),
	}
}

// IncrementEvaluation records one evaluation outcome.
func (m *Metrics) IncrementEvaluation(status string, changed bool) {
	if m != nil {
		label := "false"
		if changed {
			label = "true"
		}
		m.EvaluationOutcome.WithLabelValues(status, label).Inc()
	}
}

// IncrementCommitRetry records one conflict-driven retry.
func (m *Metrics) IncrementCommitRetry() {
	if m != nil {
		m.CommitRetries.Inc()
	}
}

// IncrementCommitConflict records a surfaced concurrency conflict.
func (m *Metrics) IncrementCommitConflict() {
	if m != nil {
		m.CommitConflicts.Inc()
	}
}

// IncrementOverride records an override decision.
func (m *Metrics) IncrementOverride(decision string) {
	if m != nil {
		m.OverrideRequests.WithLabelValues(decision).Inc()
	}
}

// IncrementDrift records a drift detection.
func (m *Metrics) IncrementDrift() {
	if m != nil {
		m.DriftDetected.Inc()
	}
}

// ObserveEvaluateLatency records the total evaluate-and-commit duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// IncrementBatchResult records one per-onboarding batch result.
func (m *Metrics) IncrementBatchResult(result string) {
	if m != nil {
		m.BatchResults.WithLabelValues(result).Inc()
	}
}

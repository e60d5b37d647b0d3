// Package metrics provides Prometheus metrics for the pairing-api service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"jan-server/services/pairing-api/internal/domain/session"
)

const namespace = "pairing"

var (
	// SessionLifecycle counts committed lifecycle transitions by event type.
	SessionLifecycle = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_lifecycle_total",
			Help:      "Total number of committed session lifecycle transitions",
		},
		[]string{"event"},
	)

	// JoinConflicts counts joins that lost the participant race.
	JoinConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_join_conflicts_total",
			Help:      "Total number of joins rejected by the conditional participant update",
		},
	)

	// SagaCompensations counts compensations by step and outcome.
	SagaCompensations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saga_compensations_total",
			Help:      "Total number of saga compensations executed",
		},
		[]string{"step", "outcome"},
	)

	// ProvisionRequests counts collaboration resource calls.
	ProvisionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provision_requests_total",
			Help:      "Total number of video and chat provisioning calls",
		},
		[]string{"resource", "operation", "outcome"},
	)

	// HTTPRequestDuration tracks request latency per route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// ReconcileDuration tracks orphan sweep latency.
	ReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of orphan resource sweeps",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// ReconcileDeletions counts orphaned resources removed by the reconciler.
	ReconcileDeletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_deletions_total",
			Help:      "Total number of orphaned collaboration resources deleted",
		},
		[]string{"reason"},
	)

	// ReconcileErrors counts failed sweeps and failed deletions.
	ReconcileErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_errors_total",
			Help:      "Total number of errors during orphan reconciliation",
		},
	)
)

// RecordProvision counts a provisioning call outcome.
func RecordProvision(resource, operation string, err error) {
	ProvisionRequests.WithLabelValues(resource, operation, outcome(err != nil)).Inc()
}

func outcome(failed bool) string {
	if failed {
		return "failure"
	}
	return "success"
}

// SessionRecorder feeds session service counters into Prometheus.
type SessionRecorder struct{}

// NewSessionRecorder returns the Prometheus-backed session recorder.
func NewSessionRecorder() SessionRecorder {
	return SessionRecorder{}
}

func (SessionRecorder) RecordLifecycle(event session.EventType) {
	SessionLifecycle.WithLabelValues(string(event)).Inc()
}

func (SessionRecorder) RecordJoinConflict() {
	JoinConflicts.Inc()
}

func (SessionRecorder) RecordCompensation(step string, failed bool) {
	SagaCompensations.WithLabelValues(step, outcome(failed)).Inc()
}

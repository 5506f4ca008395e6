// Package metrics exposes Prometheus metrics for the coordinator.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "meeting_coordinator"

// Registry is the custom registry backing the /metrics endpoint. Using a
// dedicated registry keeps the default Go collectors out of the scrape.
var registry = prometheus.NewRegistry()

var (
	sessionsCreated = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_created_total",
		Help:      "Scheduling sessions created.",
	})
	sessionsFinished = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_finished_total",
		Help:      "Sessions reaching a terminal status, by outcome.",
	}, []string{"outcome"})
	holdsCreated = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "holds_created_total",
		Help:      "Holds created for session candidates.",
	})
	holdsTransitioned = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "holds_transitioned_total",
		Help:      "Hold lifecycle transitions applied, by target status.",
	}, []string{"to"})
	notificationFailures = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Reservation notifications that could not be delivered.",
	})
	sweepDuration = promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sweep_duration_seconds",
		Help:      "Duration of expiry sweep passes.",
		Buckets:   prometheus.DefBuckets,
	})
	httpRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method and status class.",
	}, []string{"method", "status"})
	httpRequestDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

// RecordSessionCreated counts a newly created session.
func RecordSessionCreated() {
	sessionsCreated.Inc()
}

// RecordSessionFinished counts a session reaching the given terminal outcome.
func RecordSessionFinished(outcome string) {
	sessionsFinished.WithLabelValues(outcome).Inc()
}

// RecordHoldCreated counts a newly created hold.
func RecordHoldCreated() {
	holdsCreated.Inc()
}

// RecordHoldTransition counts a hold transition to the given status.
func RecordHoldTransition(to string) {
	holdsTransitioned.WithLabelValues(to).Inc()
}

// RecordNotificationFailure counts a dropped reservation notification.
func RecordNotificationFailure() {
	notificationFailures.Inc()
}

// ObserveSweepDuration records the duration of one expiry sweep pass.
func ObserveSweepDuration(seconds float64) {
	sweepDuration.Observe(seconds)
}

// RecordHTTPRequest counts a served request.
func RecordHTTPRequest(method, status string) {
	httpRequests.WithLabelValues(method, status).Inc()
}

// ObserveHTTPRequestDuration records request latency.
func ObserveHTTPRequestDuration(method string, seconds float64) {
	httpRequestDuration.WithLabelValues(method).Observe(seconds)
}

// Handler serves the registry for Prometheus scrapes.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

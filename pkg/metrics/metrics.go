package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	EventsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_dispatched_total",
			Help: "Total number of mutation events handed to the dispatcher",
		},
		[]string{"kind"},
	)

	ActivityLogsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_logs_recorded_total",
			Help: "Total number of activity log entries written",
		},
		[]string{"kind"},
	)

	// Covers suppressed duplicates, unresolvable references, unrecognized
	// event kinds, and store failures.
	ActivityLogsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_logs_skipped_total",
			Help: "Total number of events that produced no activity log entry",
		},
		[]string{"kind", "reason"},
	)

	NotificationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Total number of notifications created",
		},
	)

	SweepTransitions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sweep_transitions_total",
			Help: "Total number of tasks transitioned to Missed by the sweeper",
		},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sweep_duration_seconds",
			Help:    "Duration of a single due-date sweep",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	OutboxPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_events_published_total",
			Help: "Total number of outbox events relayed to the broker",
		},
		[]string{"status"},
	)
)

func RecordHTTPRequestDuration(method, path, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

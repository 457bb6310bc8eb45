package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Queue rows produced, by notification type.
	NotificationQueuedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_queued_count",
			Help: "Total number of notification queue rows produced",
		},
		[]string{"type"},
	)

	// Producer failures, by error class (lookup, insert, contact_channel).
	NotificationProduceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_produce_failures",
			Help: "Total number of failed notification producer calls",
		},
		[]string{"type", "reason"},
	)

	// Bulk insert latency (seconds).
	QueueInsertDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_queue_insert_duration_seconds",
			Help:    "Notification queue bulk insert duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
	)

	// Best-effort side effects that were swallowed at a call site.
	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "side_effect_failures",
			Help: "Total number of swallowed best-effort side effect failures",
		},
		[]string{"task"},
	)

	// HTTP request latency (seconds).
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Queries slower than the configured threshold.
	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of slow database queries",
		},
	)

	SlowQuerySeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "db_slow_query_duration_seconds",
			Help:    "Duration of slow database queries in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 8), // 100ms to ~25s
		},
	)
)

// IncrementQueued records produced queue rows for a notification type.
func IncrementQueued(notificationType string, count int) {
	NotificationQueuedCount.WithLabelValues(notificationType).Add(float64(count))
}

// IncrementProduceFailure records a failed producer call.
func IncrementProduceFailure(notificationType, reason string) {
	NotificationProduceFailures.WithLabelValues(notificationType, reason).Inc()
}

// RecordQueueInsertDuration records a bulk insert latency.
func RecordQueueInsertDuration(duration time.Duration) {
	QueueInsertDuration.Observe(duration.Seconds())
}

// IncrementSideEffectFailure records a swallowed best-effort failure.
func IncrementSideEffectFailure(task string) {
	SideEffectFailures.WithLabelValues(task).Inc()
}

// RecordHTTPRequestDuration records an HTTP request latency.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementSlowQuery records a query that exceeded the slow threshold.
func IncrementSlowQuery(duration time.Duration) {
	SlowQueryCount.Inc()
	SlowQuerySeconds.Observe(duration.Seconds())
}

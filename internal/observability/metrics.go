package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreMutations counts store mutations by store, operation and outcome (applied|skipped).
	StoreMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hedwig_store_mutations_total",
		Help: "Total number of store mutations by store, operation and outcome",
	}, []string{"store", "operation", "outcome"})

	// SessionEvents counts session transitions (login, logout, register, restore) by outcome.
	SessionEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hedwig_session_events_total",
		Help: "Total number of session operations by type and outcome",
	}, []string{"operation", "outcome"})

	// StorageErrors counts durable storage errors by backend and operation.
	StorageErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hedwig_storage_errors_total",
		Help: "Total number of durable storage errors",
	}, []string{"backend", "operation"})

	// StorageLatency records durable storage latency by backend and operation.
	StorageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hedwig_storage_latency_seconds",
		Help:    "Durable storage latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "operation"})

	// RedisErrorRate counts Redis errors by command.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hedwig_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// UnreadNotifications reports the unread count last computed for the session user.
	UnreadNotifications = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hedwig_unread_notifications",
		Help: "Unread notifications of the current session user at last computation",
	})
)

// RecordMutation increments StoreMutations.
func RecordMutation(store, operation string, applied bool) {
	outcome := "applied"
	if !applied {
		outcome = "skipped"
	}
	StoreMutations.WithLabelValues(store, operation, outcome).Inc()
}

// TrackStorage returns a function that records storage latency when called (e.g. defer).
func TrackStorage(backend, operation string) func() {
	start := time.Now()
	return func() {
		StorageLatency.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
	}
}

package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Global metrics instance for singleton pattern
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Scene metrics
	ObjectsMutated   *prometheus.CounterVec
	SnapshotsApplied prometheus.Counter
	SnapshotsSkipped prometheus.Counter

	// Dispatcher metrics
	CommitsFlushed    prometheus.Counter
	CommitsFailed     prometheus.Counter
	CommitsSuppressed prometheus.Counter

	// Presence metrics
	PresenceConnections prometheus.Gauge
	PresenceMessages    prometheus.Counter
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	// Singleton avoids duplicate registration in tests
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	objectsMutated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_mutated_total",
			Help:      "Scene object mutations by operation",
		},
		[]string{"operation"},
	)

	snapshotsApplied := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshots_applied_total",
		Help:      "Remote snapshots that changed local state",
	})

	snapshotsSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshots_skipped_total",
		Help:      "Remote snapshots skipped as value-identical",
	})

	commitsFlushed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commits_flushed_total",
		Help:      "Remote commits flushed by the dispatcher",
	})

	commitsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commits_failed_total",
		Help:      "Remote commits that failed",
	})

	commitsSuppressed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commits_suppressed_total",
		Help:      "Remote commits dropped by the open circuit breaker",
	})

	presenceConnections := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "presence_connections",
		Help:      "Active presence websocket connections",
	})

	presenceMessages := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "presence_messages_total",
		Help:      "Presence messages broadcast to peers",
	})

	registry.MustRegister(
		httpRequests, httpDuration,
		objectsMutated, snapshotsApplied, snapshotsSkipped,
		commitsFlushed, commitsFailed, commitsSuppressed,
		presenceConnections, presenceMessages,
	)

	globalCollector = &Collector{
		registry:            registry,
		HTTPRequests:        httpRequests,
		HTTPDuration:        httpDuration,
		ObjectsMutated:      objectsMutated,
		SnapshotsApplied:    snapshotsApplied,
		SnapshotsSkipped:    snapshotsSkipped,
		CommitsFlushed:      commitsFlushed,
		CommitsFailed:       commitsFailed,
		CommitsSuppressed:   commitsSuppressed,
		PresenceConnections: presenceConnections,
		PresenceMessages:    presenceMessages,
	}
	return globalCollector
}

// Registry exposes the underlying registry for the /metrics endpoint
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

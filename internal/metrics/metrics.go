// Roomscope - Voice Room Presence Analytics API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomscope

package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "roomscope"

var (
	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Duration of storage queries in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_query_errors_total",
			Help:      "Total number of failed storage queries",
		},
		[]string{"operation", "table", "kind"},
	)

	DBPoolInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "db_pool_connections_in_use",
		Help:      "Connections currently checked out of the pool",
	})

	DBPoolWaitCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "db_pool_wait_count",
		Help:      "Cumulative number of connection waits reported by database/sql",
	})

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "api_active_requests",
		Help:      "Current number of in-flight API requests",
	})

	// Response cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Response cache hits",
		},
		[]string{"endpoint"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Response cache misses",
		},
		[]string{"endpoint"},
	)

	// Profile view recorder
	ProfileViewsQueued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_views_queued_total",
		Help:      "Profile views accepted onto the queue",
	})

	ProfileViewsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_views_dropped_total",
			Help:      "Profile views that never reached the queue",
		},
		[]string{"reason"},
	)

	ProfileViewsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_views_recorded_total",
		Help:      "Profile views inserted into storage",
	})

	ProfileViewsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_views_duplicate_total",
		Help:      "Profile view inserts ignored as duplicates",
	})

	ProfileViewFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_view_failures_total",
			Help:      "Profile view inserts that failed and were discarded",
		},
		[]string{"reason"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordDBQuery records one storage query. kind is the error classification
// and is ignored when err is nil.
func RecordDBQuery(operation, table string, duration time.Duration, kind string, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, kind).Inc()
	}
}

// RecordPoolStats copies database/sql pool statistics into gauges.
//
//nolint:gocritic // sql.DBStats is returned by value from (*sql.DB).Stats
func RecordPoolStats(stats sql.DBStats) {
	DBPoolInUse.Set(float64(stats.InUse))
	DBPoolWaitCount.Set(float64(stats.WaitCount))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup counts a response cache hit or miss.
func RecordCacheLookup(endpoint string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(endpoint).Inc()
		return
	}
	CacheMisses.WithLabelValues(endpoint).Inc()
}

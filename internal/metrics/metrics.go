// Package metrics provides Prometheus metrics for linkstat.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequestsTotal counts Linkly API calls by endpoint and outcome.
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linkstat",
			Name:      "provider_requests_total",
			Help:      "Total number of Linkly API requests",
		},
		[]string{"endpoint", "status"},
	)

	// ProviderRequestDuration measures Linkly API latency.
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "linkstat",
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of Linkly API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// DroppedPointsTotal counts malformed traffic points discarded on decode.
	DroppedPointsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "linkstat",
			Name:      "dropped_points_total",
			Help:      "Traffic points dropped because of a malformed date or count",
		},
	)

	// CachePopulationsTotal counts session cache loads by kind (links, history).
	CachePopulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linkstat",
			Name:      "cache_populations_total",
			Help:      "Session cache population passes",
		},
		[]string{"kind", "status"},
	)

	// ActiveSessions reports the sessions currently held by the server.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "linkstat",
			Name:      "active_sessions",
			Help:      "Sessions held in the server's session store",
		},
	)
)

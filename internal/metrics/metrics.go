// Package metrics exposes the Prometheus collectors of the web client.
//
// Collectors are registered on the default registry through promauto and
// served by promhttp at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelbase_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelbase_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// TMDBRequests counts TMDB calls by endpoint and outcome (ok, error, status_xxx, rejected).
	TMDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelbase_tmdb_requests_total",
			Help: "Total number of TMDB API calls",
		},
		[]string{"endpoint", "outcome"},
	)

	// CatalogRequests counts GraphQL operations by name and outcome.
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelbase_catalog_requests_total",
			Help: "Total number of GraphQL catalog operations",
		},
		[]string{"operation", "outcome"},
	)

	// Reconciliations counts add-to-catalog attempts by outcome.
	Reconciliations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelbase_reconciliations_total",
			Help: "Total number of TMDB to catalog reconciliations",
		},
		[]string{"outcome"},
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelbase_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// RateLimitHits counts requests rejected by the API rate limiter.
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelbase_rate_limit_hits_total",
			Help: "Requests rejected by the API rate limiter",
		},
	)
)

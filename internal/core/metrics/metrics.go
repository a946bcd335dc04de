// Package metrics defines the Prometheus collectors exported by chancekeeper.
// Collectors register with the default registry at init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace prefixes every metric (e.g. chancekeeper_...).
const namespace = "chancekeeper"

// lowLatencyBuckets resolve sub-millisecond evaluations. Range: 50us to 100ms.
var lowLatencyBuckets = []float64{.00005, .0001, .00025, .0005, .001, .002, .005, .010, .025, .050, .100}

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
)

var (
	// EvaluationsTotal counts chance evaluations by outcome.
	// Metric: chancekeeper_engine_evaluations_total
	EvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "evaluations_total",
		Help:      "Total chance evaluations",
	}, []string{"outcome"})

	// EvaluationDuration measures Chance.Evaluate latency, excluding lookup.
	// Metric: chancekeeper_engine_evaluation_seconds
	EvaluationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "evaluation_seconds",
		Help:      "Time taken to evaluate a chance against a context",
		Buckets:   lowLatencyBuckets,
	})

	// ModifiersApplied counts modifiers whose condition held.
	ModifiersApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "modifiers_applied_total",
		Help:      "Total modifiers applied across all evaluations",
	})

	// --- Definition cache ---

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total chance cache hits",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total chance cache misses",
	})

	// CacheInvalidations counts entries dropped after a definition write.
	CacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "invalidations_total",
		Help:      "Total chance cache invalidations caused by writes",
	})

	// --- Transports ---

	// GRPCRequestsTotal counts gRPC requests.
	// Metric: chancekeeper_grpc_requests_total
	GRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "grpc",
		Name:      "requests_total",
		Help:      "Total gRPC requests",
	}, []string{"method", "code"})

	GRPCRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "grpc",
		Name:      "handling_seconds",
		Help:      "Time taken to handle gRPC requests",
		Buckets:   lowLatencyBuckets,
	}, []string{"method"})

	// HTTPRequestsTotal counts control API requests by route pattern.
	// Metric: chancekeeper_http_requests_total
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP control API requests",
	}, []string{"method", "path", "code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "handling_seconds",
		Help:      "Time taken to handle HTTP control API requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})
)

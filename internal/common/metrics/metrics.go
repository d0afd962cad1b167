// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ContextBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "context_builds_total",
			Help: "Total number of context build requests",
		},
		[]string{"status"},
	)

	ContextBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "context_build_duration_seconds",
			Help: "Duration of full context builds in seconds",
		},
	)

	ContextSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "context_size_bytes",
			Help:    "Size of the rendered context text in bytes",
			Buckets: prometheus.ExponentialBuckets(256, 2, 8),
		},
	)

	DomainRetrievalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "domain_retrieval_duration_seconds",
			Help: "Duration of a single domain retrieval in seconds",
		},
		[]string{"domain"},
	)

	DomainRetrievalFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_retrieval_failures_total",
			Help: "Total number of isolated domain retrieval failures",
		},
		[]string{"domain"},
	)

	CalculatorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculator_failures_total",
			Help: "Total number of isolated financial calculator failures",
		},
		[]string{"calculator"},
	)

	ContextCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "context_cache_events_total",
			Help: "Context cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

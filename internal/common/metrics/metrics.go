// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlq_queries_processed_total",
			Help: "Total number of natural language queries processed by category",
		},
		[]string{"category"},
	)

	QueriesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlq_queries_failed_total",
			Help: "Total number of queries that produced an error answer",
		},
		[]string{"category", "error_code"},
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "nlq_pipeline_duration_seconds",
			Help: "Duration of end to end query processing in seconds",
		},
		[]string{"category"},
	)

	CompletionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlq_completion_requests_total",
			Help: "Total number of completion API calls by purpose",
		},
		[]string{"purpose", "status"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlq_summary_cache_hits_total",
			Help: "Consolidated summary cache lookups by outcome",
		},
		[]string{"outcome"},
	)
)

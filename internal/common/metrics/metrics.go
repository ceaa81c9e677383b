// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_analyses_completed_total",
			Help: "Total number of completed credit analyses",
		},
		[]string{"mode"},
	)

	AnalysesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_analyses_failed_total",
			Help: "Total number of failed credit analyses",
		},
		[]string{"error_code"},
	)

	FallbackScores = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_fallback_scores_total",
			Help: "Times the deterministic fallback formula produced the score",
		},
	)

	CacheWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_cache_write_failures_total",
			Help: "Result cache writes that were logged and swallowed",
		},
	)

	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "engine_analysis_duration_seconds",
			Help: "Duration of a full analysis call in seconds",
		},
	)
)

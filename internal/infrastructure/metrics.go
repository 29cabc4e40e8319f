package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service.
// All collectors are registered on the registry passed to NewMetrics so
// tests can use an isolated registry.
type Metrics struct {
	HTTPRequests  *prometheus.CounterVec
	ScriptRuns    *prometheus.CounterVec
	ScriptSeconds prometheus.Histogram
	FilesParsed   prometheus.Counter
	SummaryRows   prometheus.Counter
}

// NewMetrics creates and registers the service collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "screener",
			Name:      "http_requests_total",
			Help:      "HTTP requests by path and status code.",
		}, []string{"path", "status"}),
		ScriptRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "screener",
			Name:      "script_runs_total",
			Help:      "External screening script invocations by script and outcome.",
		}, []string{"script", "outcome"}),
		ScriptSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "screener",
			Name:      "script_duration_seconds",
			Help:      "Wall time of external screening script invocations.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		FilesParsed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "screener",
			Name:      "csv_files_parsed_total",
			Help:      "CSV files parsed across both flows.",
		}),
		SummaryRows: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "screener",
			Name:      "summary_rows_total",
			Help:      "Daily summary rows produced by the aggregator.",
		}),
	}
}

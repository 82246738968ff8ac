package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the analytics domain.
type Metrics struct {
	ReportDuration *prometheus.HistogramVec
	ReportFailures *prometheus.CounterVec
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
}

// New creates and registers the analytics metrics.
func New() *Metrics {
	return &Metrics{
		ReportDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agora_analytics_report_duration_seconds",
			Help:    "Latency of full aggregate fan-outs",
			Buckets: prometheus.DefBuckets,
		}, []string{"report"}),
		ReportFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agora_analytics_report_failures_total",
			Help: "Aggregate fan-outs that failed as a whole",
		}, []string{"report"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agora_analytics_cache_hits_total",
			Help: "Brief report cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agora_analytics_cache_misses_total",
			Help: "Brief report cache misses",
		}),
	}
}

// ObserveReport records a completed fan-out.
func (m *Metrics) ObserveReport(report string, d time.Duration) {
	if m == nil {
		return
	}
	m.ReportDuration.WithLabelValues(report).Observe(d.Seconds())
}

// RecordFailure counts a whole-call aggregation failure.
func (m *Metrics) RecordFailure(report string) {
	if m == nil {
		return
	}
	m.ReportFailures.WithLabelValues(report).Inc()
}

// RecordCacheHit counts a brief cache hit.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// RecordCacheMiss counts a brief cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

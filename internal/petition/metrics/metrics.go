package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the petition domain.
type Metrics struct {
	PetitionsSubmitted *prometheus.CounterVec
	Transitions        *prometheus.CounterVec
	EndorsementToggles *prometheus.CounterVec
	TransitionDuration prometheus.Histogram
}

// New creates and registers the petition metrics.
func New() *Metrics {
	return &Metrics{
		PetitionsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agora_petitions_submitted_total",
			Help: "Total number of petitions submitted, by kind",
		}, []string{"kind"}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agora_status_transitions_total",
			Help: "Status transition outcomes",
		}, []string{"outcome"}),
		EndorsementToggles: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agora_endorsement_toggles_total",
			Help: "Endorsement toggle results",
		}, []string{"result"}),
		TransitionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "agora_status_transition_duration_seconds",
			Help:    "Latency of status transitions including recipient computation",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordSubmission counts a submitted petition by kind label.
func (m *Metrics) RecordSubmission(kind string) {
	if m == nil {
		return
	}
	m.PetitionsSubmitted.WithLabelValues(kind).Inc()
}

// RecordTransition counts a transition outcome and observes its latency.
func (m *Metrics) RecordTransition(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(outcome).Inc()
	m.TransitionDuration.Observe(d.Seconds())
}

// RecordToggle counts an endorsement toggle result ("endorsed" or
// "withdrawn").
func (m *Metrics) RecordToggle(result string) {
	if m == nil {
		return
	}
	m.EndorsementToggles.WithLabelValues(result).Inc()
}

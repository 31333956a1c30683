// Package metrics exposes Prometheus counters for the scorecard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "parkgolf"

// Metrics groups the service collectors. A nil *Metrics is valid and
// records nothing, so packages can take it as an optional dependency.
type Metrics struct {
	roundsSaved     prometheus.Counter
	saveRejected    *prometheus.CounterVec
	recordsDeleted  prometheus.Counter
	turnsCommitted  prometheus.Counter
	activeSessions  prometheus.Gauge
	storeOps        *prometheus.CounterVec
	storeOpDuration *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		roundsSaved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_saved_total",
			Help:      "Rounds stored as game records.",
		}),
		saveRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "round_saves_rejected_total",
			Help:      "Save attempts that stored nothing, by reason.",
		}, []string{"reason"}),
		recordsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_deleted_total",
			Help:      "Game records removed.",
		}),
		turnsCommitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_committed_total",
			Help:      "Player turns advanced to the next hole.",
		}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Venues with a scorecard loaded in memory.",
		}),
		storeOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Key-value store calls by operation and result.",
		}, []string{"op", "result"}),
		storeOpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Key-value store call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"op"}),
	}
}

func (m *Metrics) RoundSaved() {
	if m != nil {
		m.roundsSaved.Inc()
	}
}

func (m *Metrics) SaveRejected(reason string) {
	if m != nil {
		m.saveRejected.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) RecordsDeleted(n int) {
	if m != nil && n > 0 {
		m.recordsDeleted.Add(float64(n))
	}
}

func (m *Metrics) TurnsCommitted(n int) {
	if m != nil && n > 0 {
		m.turnsCommitted.Add(float64(n))
	}
}

func (m *Metrics) SetActiveSessions(n int) {
	if m != nil {
		m.activeSessions.Set(float64(n))
	}
}

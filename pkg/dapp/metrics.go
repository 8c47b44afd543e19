package dapp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "celo_faucet"

const (
	outcomeSuccess    = "success"
	outcomeFailed     = "failed"
	outcomeInProgress = "in_progress"
)

// Metrics counts flow outcomes. A nil *Metrics records nothing.
type Metrics struct {
	flows    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	reads    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		flows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_total",
			Help:      "User flows by name and outcome",
		}, []string{"flow", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flow_duration_seconds",
			Help:      "Time spent in a user flow, including waiting for confirmations",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"flow"}),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_read_total",
			Help:      "Balance reads by kind and outcome",
		}, []string{"kind", "outcome"}),
	}
	reg.MustRegister(m.flows, m.duration, m.reads)
	return m
}

func (m *Metrics) observeFlow(flow, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.flows.WithLabelValues(flow, outcome).Inc()
	if outcome != outcomeInProgress {
		m.duration.WithLabelValues(flow).Observe(time.Since(started).Seconds())
	}
}

func (m *Metrics) observeRead(kind string, err error) {
	if m == nil {
		return
	}
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailed
	}
	m.reads.WithLabelValues(kind, outcome).Inc()
}

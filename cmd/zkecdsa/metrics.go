package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultValid     = "valid"
	resultInvalid   = "invalid"
	resultMalformed = "malformed"
)

type metrics struct {
	verifications *prometheus.CounterVec
	latency       prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zkecdsa",
			Name:      "verifications_total",
			Help:      "Proof verifications by result.",
		}, []string{"curve", "result"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "zkecdsa",
			Name:      "verify_duration_seconds",
			Help:      "Time spent verifying a single proof.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}
	reg.MustRegister(m.verifications, m.latency)
	return m
}

func (m *metrics) observe(curve string, valid bool) {
	result := resultInvalid
	if valid {
		result = resultValid
	}
	m.verifications.WithLabelValues(curve, result).Inc()
}

package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type serverMetrics struct {
	requests *prometheus.CounterVec
}

func newServerMetrics(reg *prometheus.Registry) *serverMetrics {
	if reg == nil {
		return nil
	}
	return &serverMetrics{
		requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "merit_rpc_requests_total",
			Help: "JSON-RPC requests handled, by method and outcome.",
		}, []string{"method", "outcome"}),
	}
}

func (m *serverMetrics) observe(method, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
}

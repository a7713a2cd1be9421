package backend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
)

// Metrics records backend call latency. A nil *Metrics is a no-op.
type Metrics struct {
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bandcoord",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Duration of REST backend calls in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "resource", "outcome"}),
	}
	reg.MustRegister(m.duration)
	return m
}

func (m *Metrics) observe(method, resource string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(method, resource, outcome(err)).Observe(d.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errs.IsNetwork(err):
		return "network"
	default:
		return "rejected"
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-wide HTTP metrics.
type Metrics struct {
	Requests *prometheus.CounterVec
}

// New creates and registers the HTTP metrics.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "citeguard_http_requests_total",
			Help: "Total HTTP requests by route pattern and status class",
		}, []string{"route", "status"}),
	}
}

// IncrementRequests counts one handled request.
func (m *Metrics) IncrementRequests(route, status string) {
	if m != nil {
		m.Requests.WithLabelValues(route, status).Inc()
	}
}

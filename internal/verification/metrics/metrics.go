package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification module.
type Metrics struct {
	// Evidence gathering latencies by layer
	LayerLatency *prometheus.HistogramVec

	// Layer failures by layer and error category
	LayerFailures *prometheus.CounterVec

	// Verdicts by model, domain and verdict
	Verdicts *prometheus.CounterVec

	// Distribution of Bayesian posteriors by domain
	Posterior *prometheus.HistogramVec

	// Overall verification latency
	VerifyLatency prometheus.Histogram

	// Verdict cache lookups by result
	CacheLookups *prometheus.CounterVec
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the verification metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LayerLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "citeguard_layer_duration_seconds",
			Help:    "Duration of evidence layer checks by layer",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"layer"}),

		LayerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "citeguard_layer_failures_total",
			Help: "Evidence layer failures by layer and error category",
		}, []string{"layer", "category"}),

		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "citeguard_verdicts_total",
			Help: "Verdicts by scoring model, domain and verdict",
		}, []string{"model", "domain", "verdict"}),

		Posterior: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "citeguard_bayesian_posterior",
			Help:    "Bayesian posterior probability by domain",
			Buckets: prometheus.LinearBuckets(0.05, 0.05, 19),
		}, []string{"domain"}),

		VerifyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "citeguard_verify_duration_seconds",
			Help:    "Duration of full verification including evidence gathering",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "citeguard_verdict_cache_lookups_total",
			Help: "Verdict cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss", "error"
	}
}

// ObserveLayerLatency records the duration of one layer check.
func (m *Metrics) ObserveLayerLatency(layer string, d time.Duration) {
	if m != nil {
		m.LayerLatency.WithLabelValues(layer).Observe(d.Seconds())
	}
}

// IncrementLayerFailure records a failed layer check.
func (m *Metrics) IncrementLayerFailure(layer, category string) {
	if m != nil {
		m.LayerFailures.WithLabelValues(layer, category).Inc()
	}
}

// IncrementVerdict records one verdict.
func (m *Metrics) IncrementVerdict(model, domain, verdict string) {
	if m != nil {
		m.Verdicts.WithLabelValues(model, domain, verdict).Inc()
	}
}

// ObservePosterior records a Bayesian posterior.
func (m *Metrics) ObservePosterior(domain string, p float64) {
	if m != nil {
		m.Posterior.WithLabelValues(domain).Observe(p)
	}
}

// ObserveVerifyLatency records the total verification duration.
func (m *Metrics) ObserveVerifyLatency(d time.Duration) {
	if m != nil {
		m.VerifyLatency.Observe(d.Seconds())
	}
}

// IncrementCacheLookup records a verdict cache lookup result.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

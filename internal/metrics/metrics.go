// Package metrics exposes gateway counters over a dedicated Prometheus
// registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the gateway metrics and their Prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	Requests        *prometheus.CounterVec
	UpstreamLatency *prometheus.HistogramVec
	TokenRefreshes  prometheus.Counter
	AuditDropped    prometheus.Counter
}

// NewRegistry creates and registers the gateway metrics.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_requests_total",
		Help: "Gateway requests by operation and outcome.",
	}, []string{"operation", "outcome"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_upstream_latency_seconds",
		Help:    "Latency of upstream eKomKassa calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	refreshes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_token_refreshes_total",
		Help: "One-shot token refreshes triggered by expired tokens.",
	})

	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_audit_dropped_total",
		Help: "Audit log writes that failed and were dropped.",
	})

	r.MustRegister(requests, latency, refreshes, dropped)
	return &Registry{
		reg:             r,
		Requests:        requests,
		UpstreamLatency: latency,
		TokenRefreshes:  refreshes,
		AuditDropped:    dropped,
	}
}

// Handler serves the registry over HTTP.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Package metrics defines the prometheus collectors for the inventory
// service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout event outcomes.
const (
	OutcomeApplied      = "applied"
	OutcomeDiscarded    = "discarded"
	OutcomeUnknownAsset = "unknown_asset"
	OutcomeRequeued     = "requeued"
)

// Metrics holds the service collectors.
type Metrics struct {
	CheckoutEvents *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	AssetsByStatus *prometheus.GaugeVec
}

// New creates and registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration.
func New(service string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CheckoutEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assetforge",
			Subsystem: service,
			Name:      "checkout_events_total",
			Help:      "Checkout events received, partitioned by processing outcome.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assetforge",
			Subsystem: service,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		AssetsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "assetforge",
			Subsystem: service,
			Name:      "assets_by_status",
			Help:      "Current number of assets per lifecycle status.",
		}, []string{"status"}),
	}

	reg.MustRegister(m.CheckoutEvents, m.HTTPRequests, m.AssetsByStatus)
	return m
}

// Handler exposes the default registry in prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

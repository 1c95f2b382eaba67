// Package metrics exposes storefront counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so that tests can create as many
// instances as they need. A nil *Metrics ignores every observation.
type Metrics struct {
	registry *prometheus.Registry

	recomputes       prometheus.Counter
	catalogLoads     *prometheus.CounterVec
	cartMutations    *prometheus.CounterVec
	storageFailures  *prometheus.CounterVec
	websocketClients prometheus.Gauge
}

// New registers the storefront collectors plus the Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "filter_recomputes_total",
			Help:      "Filter pipeline runs.",
		}),
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "catalog_loads_total",
			Help:      "Catalog loads by outcome (loaded or fallback).",
		}, []string{"outcome"}),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "cart_mutations_total",
			Help:      "Cart changes by operation.",
		}, []string{"op"}),
		storageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "cart_storage_failures_total",
			Help:      "Cart persistence failures by operation.",
		}, []string{"op"}),
		websocketClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefront",
			Name:      "websocket_clients",
			Help:      "Connected websocket clients.",
		}),
	}
	m.registry.MustRegister(
		m.recomputes,
		m.catalogLoads,
		m.cartMutations,
		m.storageFailures,
		m.websocketClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Recompute() {
	if m != nil {
		m.recomputes.Inc()
	}
}

func (m *Metrics) CatalogLoaded(fallback bool) {
	if m == nil {
		return
	}
	outcome := "loaded"
	if fallback {
		outcome = "fallback"
	}
	m.catalogLoads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CartMutation(op string) {
	if m != nil {
		m.cartMutations.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) StorageFailure(op string, _ error) {
	if m != nil {
		m.storageFailures.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) ClientConnected() {
	if m != nil {
		m.websocketClients.Inc()
	}
}

func (m *Metrics) ClientDisconnected() {
	if m != nil {
		m.websocketClients.Dec()
	}
}

package metricsprovider

import (
	"lending/providers"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PromMetricsProvider struct {
	registry       *prometheus.Registry
	apiCalls       *prometheus.CounterVec
	cacheFallbacks *prometheus.CounterVec
	mutations      *prometheus.CounterVec
}

// NewMetricsProvider registers the portal counters on a private registry so
// several providers can coexist in one process (tests, CLI + portal).
func NewMetricsProvider() providers.MetricsProvider {
	registry := prometheus.NewRegistry()
	m := &PromMetricsProvider{
		registry: registry,
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lending",
			Name:      "remote_api_calls_total",
			Help:      "Calls made to the remote lending API by operation and outcome.",
		}, []string{"operation", "outcome"}),
		cacheFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lending",
			Name:      "cache_fallbacks_total",
			Help:      "Reads served from the local snapshot because the remote API failed.",
		}, []string{"collection"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lending",
			Name:      "mutations_total",
			Help:      "Reconciler mutations by action and outcome.",
		}, []string{"action", "outcome"}),
	}
	registry.MustRegister(
		m.apiCalls,
		m.cacheFallbacks,
		m.mutations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *PromMetricsProvider) ObserveAPICall(operation string, err error) {
	m.apiCalls.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *PromMetricsProvider) IncCacheFallback(collection string) {
	m.cacheFallbacks.WithLabelValues(collection).Inc()
}

func (m *PromMetricsProvider) ObserveMutation(action string, err error) {
	m.mutations.WithLabelValues(action, outcome(err)).Inc()
}

func (m *PromMetricsProvider) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

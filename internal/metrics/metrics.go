package metrics

import (
	"net/http"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProviderSet is metrics providers.
var ProviderSet = wire.NewSet(NewRegistry, NewMetrics)

// Metrics holds the shortener's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	AliasesCreated *prometheus.CounterVec

	ClicksPublished prometheus.Counter
	ClicksRecorded  prometheus.Counter
	ClicksDropped   prometheus.Counter
	EventsDropped   *prometheus.CounterVec

	CacheRequests *prometheus.CounterVec
}

// NewRegistry creates a registry with the process and Go runtime collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

// NewMetrics creates and registers all shortener metrics on registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		AliasesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortlink_aliases_created_total",
				Help: "Total number of aliases created",
			},
			[]string{"source"},
		),
		ClicksPublished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "shortlink_clicks_published_total",
				Help: "Total number of click events handed to the recorder queue",
			},
		),
		ClicksRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "shortlink_clicks_recorded_total",
				Help: "Total number of click events appended to the click log",
			},
		),
		ClicksDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "shortlink_clicks_dropped_total",
				Help: "Total number of click events that could not be handed to the recorder queue",
			},
		),
		EventsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortlink_events_dropped_total",
				Help: "Total number of events a handler gave up on after retries",
			},
			[]string{"handler"},
		),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortlink_alias_cache_requests_total",
				Help: "Alias cache lookups by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		m.AliasesCreated,
		m.ClicksPublished,
		m.ClicksRecorded,
		m.ClicksDropped,
		m.EventsDropped,
		m.CacheRequests,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

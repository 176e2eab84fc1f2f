package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/csheth/paperlib/internal/library"
)

// Search outcomes recorded by Metrics.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
	outcomeStale = "stale"
)

// Metrics owns a private registry so tests and several servers in one
// process do not collide on the default one.
type Metrics struct {
	Registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	searches  *prometheus.CounterVec
	summaries *prometheus.CounterVec
}

// NewMetrics registers the paperlib collectors plus the Go runtime ones.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paperlib_library_mutations_total",
			Help: "Library mutations by kind (added, updated, removed).",
		}, []string{"kind"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paperlib_search_requests_total",
			Help: "arXiv searches by outcome.",
		}, []string{"outcome"}),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paperlib_summaries_total",
			Help: "Summaries requested through the API by source and outcome.",
		}, []string{"source", "outcome"}),
	}
	m.Registry.MustRegister(
		m.mutations,
		m.searches,
		m.summaries,
		collectors.NewGoCollector(),
	)
	return m
}

// Notify counts a library mutation. Metrics is a library.Notifier.
func (m *Metrics) Notify(n library.Notification) {
	if n.Missing {
		return
	}
	m.mutations.WithLabelValues(string(n.Kind)).Inc()
}

// WatchLibrary exports the current library size.
func (m *Metrics) WatchLibrary(store *library.Store) {
	m.Registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "paperlib_library_papers",
		Help: "Papers currently in the library.",
	}, func() float64 { return float64(store.Len()) }))
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) search(outcome string) {
	m.searches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) summary(source, outcome string) {
	m.summaries.WithLabelValues(source, outcome).Inc()
}

// Package metrics exposes the spell server's operational counters and
// gauges as Prometheus collectors. The teacher's admin server reported a
// hand-rolled JSON snapshot of a handful of atomic counters; this package
// keeps the same set of signals (connections, commands, errors) plus the
// two hand-off queues' depths, registered with a private registry so the
// admin HTTP server can serve them at /metrics without pulling in the
// global default registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds every collector the spell server reports.
type Metrics struct {
	registry *prometheus.Registry

	ConnectionsTotal prometheus.Counter
	WordsChecked     prometheus.Counter
	MisspelledTotal  prometheus.Counter
	ErrorsTotal      prometheus.Counter
	WorkersBusy      prometheus.Gauge
}

// New creates a Metrics instance with every collector registered against a
// fresh, private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spellcheckd_connections_total",
			Help: "Total number of accepted client connections.",
		}),
		WordsChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spellcheckd_words_checked_total",
			Help: "Total number of non-empty request lines classified.",
		}),
		MisspelledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spellcheckd_words_misspelled_total",
			Help: "Total number of classified words not found in the dictionary.",
		}),
		ErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "spellcheckd_errors_total",
			Help: "Total number of non-fatal socket write errors.",
		}),
		WorkersBusy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "spellcheckd_workers_busy",
			Help: "Number of workers currently serving a connection.",
		}),
	}

	m.registry.MustRegister(
		m.ConnectionsTotal,
		m.WordsChecked,
		m.MisspelledTotal,
		m.ErrorsTotal,
		m.WorkersBusy,
	)

	return m
}

// RegisterQueueDepth adds a gauge that reports name's depth via depthFunc on
// every scrape. Used for the connection queue and the log queue, each of
// which is a generic queue.Queue[T] with its own Len method.
func (m *Metrics) RegisterQueueDepth(name, help string, depthFunc func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, depthFunc))
}

// Registry returns the private registry backing every collector, for
// mounting at an HTTP /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

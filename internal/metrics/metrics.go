// Package metrics exposes the Prometheus collectors observing an
// internal/stream.Driver run: rows processed, rows rejected (by error
// kind), and per-side book depth. Kept entirely outside the core engine
// packages (internal/common, internal/book, internal/cache, internal/track,
// internal/twoside), per spec.md §1's exclusion of "logging/tracing
// instrumentation" from the core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry wraps a private prometheus.Registry so multiple Collectors (one
// per running Driver, e.g. in tests or a multi-book process) never collide
// on the global default registry.
type Registry struct {
	reg *prometheus.Registry

	RowsProcessedTotal prometheus.Counter
	RowsRejectedTotal  *prometheus.CounterVec
	BookDepth          *prometheus.GaugeVec
}

// NewRegistry constructs and registers a fresh set of collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		RowsProcessedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tickbook",
			Subsystem: "stream",
			Name:      "rows_processed_total",
			Help:      "Total input rows successfully applied to the book.",
		}),
		RowsRejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tickbook",
			Subsystem: "stream",
			Name:      "rows_rejected_total",
			Help:      "Total input rows rejected, labeled by error kind.",
		}, []string{"error"}),
		BookDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tickbook",
			Subsystem: "book",
			Name:      "depth",
			Help:      "Number of tracked top-N levels currently occupied, by side.",
		}, []string{"side"}),
	}

	reg.MustRegister(r.RowsProcessedTotal, r.RowsRejectedTotal, r.BookDepth)
	return r
}

// Handler returns the HTTP handler serving this registry's metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// ObserveDepth records the number of occupied levels on one side.
func (r *Registry) ObserveDepth(side string, depth int) {
	r.BookDepth.WithLabelValues(side).Set(float64(depth))
}

// RecordRejected increments the rejected-row counter for errKind.
func (r *Registry) RecordRejected(errKind string) {
	r.RowsRejectedTotal.WithLabelValues(errKind).Inc()
}

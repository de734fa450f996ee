// Package admin implements the observability surface: a separate, ordinary
// net/http server exposing /metrics and /debug/stats. It is pure ambient
// tooling — it observes the runtime, it is never reachable from script, and
// nothing in this package touches the goja runtime or the event loop.
package admin

import (
	"github.com/prometheus/client_golang/prometheus"
)

// registerMetrics wires src's live counters into prometheus as
// Gauge/CounterFunc collectors, so every /metrics scrape reads current
// runtime state rather than a value the admin surface has to remember to
// refresh itself.
func registerMetrics(reg *prometheus.Registry, src Sources) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "nodego_active_timers",
		Help: "Upper bound on the number of live setTimeout/setInterval entries.",
	}, func() float64 { return float64(src.ActiveTimers()) }))

	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "nodego_completion_channel_depth",
		Help: "Number of envelopes currently queued on the completion channel.",
	}, func() float64 { return float64(src.ChannelDepth()) }))

	reg.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Name: "nodego_connections_accepted_total",
		Help: "Total number of inbound HTTP server connections accepted.",
	}, func() float64 { return float64(src.ConnectionsAccepted()) }))
}

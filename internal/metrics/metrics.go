// Package metrics exposes the server's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every counter/gauge the core touches. Held by reference
// and passed into the accept loop and handlers explicitly rather than
// registered as package-level globals.
type Metrics struct {
	ActiveSessions prometheus.Gauge
	ClientIDsInUse prometheus.Gauge
	HandlerErrors  *prometheus.CounterVec
	LoginAttempts  *prometheus.CounterVec
}

// New registers and returns a fresh Metrics set against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "odin_active_sessions",
			Help: "Number of currently connected sessions.",
		}),
		ClientIDsInUse: factory.NewGauge(prometheus.GaugeOpts{
			Name: "odin_client_ids_in_use",
			Help: "Number of client ids currently allocated.",
		}),
		HandlerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "odin_handler_errors_total",
			Help: "Count of handler errors by opcode.",
		}, []string{"opcode"}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "odin_login_attempts_total",
			Help: "Count of login attempts by outcome.",
		}, []string{"outcome"}),
	}
}

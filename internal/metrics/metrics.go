// Package metrics holds the Prometheus collectors for the application's
// domain events. HTTP latency lives in the middleware package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Credential operations by operation and outcome.",
		},
		[]string{"operation", "outcome"}, // signup|login|logout, ok|<error code>
	)

	userTableRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "user_table_rows",
			Help: "Number of user records seen on the last table read or write.",
		},
	)
)

// Handler serves the default registry on /metrics.
var Handler = promhttp.Handler

// RecordAuthAttempt counts one credential operation. outcome is "ok" or the
// failure's symbolic code.
func RecordAuthAttempt(operation, outcome string) {
	authAttempts.WithLabelValues(operation, outcome).Inc()
}

// SetUserTableRows records the current size of the user table.
func SetUserTableRows(n int) {
	userTableRows.Set(float64(n))
}

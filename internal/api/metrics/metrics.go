// Package metrics defines the custom Prometheus metrics of the bitez
// services. Metrics are registered on the default registry at init through
// promauto and exposed by the /metrics endpoint of each router.
package metrics

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bitez"

// Results recorded on AuthOperationsTotal.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// AuthOperationsTotal counts auth operations.
// Labels:
//   - operation: "register", "login", "refresh", "logout" or "validate"
//   - result: "success" or "failure"
var AuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_operations_total",
		Help:      "Total number of auth operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AuthAuditDroppedTotal counts audit events discarded because the worker
// buffer was full.
var AuthAuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_audit_dropped_total",
		Help:      "Total number of auth audit events dropped on a full buffer.",
	},
)

// RefreshTokensSweptTotal counts expired refresh-token rows deleted by the
// sweeper.
var RefreshTokensSweptTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_tokens_swept_total",
		Help:      "Total number of expired refresh tokens deleted.",
	},
)

// ObserveAuth records one auth operation outcome.
func ObserveAuth(operation string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	AuthOperationsTotal.WithLabelValues(operation, result).Inc()
}

// Instrument installs the echo request metrics middleware and the /metrics
// endpoint. A nil reg selects the default registry, which also holds the
// counters above.
func Instrument(e *echo.Echo, subsystem string, reg *prometheus.Registry) {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  namespace,
		Subsystem:  subsystem,
		Registerer: registerer,
	}))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer,
	}))
}

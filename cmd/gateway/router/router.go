// Package router configures the gateway's admin HTTP server.
//
// The admin server listens separately from the API so the API keeps its exact
// route table. Routes configured:
//   - GET /healthz - Liveness (returns 200 OK)
//   - GET /readyz  - Readiness (503 until the gateway is accepting traffic)
//   - GET /metrics - Prometheus metrics endpoint
package router

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HatiCode/edgegate/pkg/httpx"
)

// SetupRoutes configures the admin routes. ready reports whether the gateway
// can serve traffic; gatherer supplies the metrics to expose.
func SetupRoutes(ready func() error, gatherer prometheus.Gatherer, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/healthz", httpx.HealthHandler())

	mux.Handle("/readyz", httpx.HealthHandlerWithCheck(ready))

	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}))

	return mux
}

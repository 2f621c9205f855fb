package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"calculator-brain/internal/calculator"
	"calculator-brain/internal/handlers"
	"calculator-brain/internal/observability"
)

// NewRouter wires the middleware chain, the health probe, the Prometheus
// scrape endpoint and the calculator API.
func NewRouter(calc *calculator.Handler, gatherer prometheus.Gatherer) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler(gatherer))

	calculator.RegisterRoutes(r, calc)

	return r
}

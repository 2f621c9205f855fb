package main

import (
	"context"

	"calculator-brain/internal/calculator"
	"calculator-brain/internal/config"
	"calculator-brain/internal/observability"
)

// initTelemetry starts the OTLP trace, log and metric pipelines when enabled
// and registers the calculator's metric instruments. With telemetry off the
// instruments bind to the global no-op providers.
func initTelemetry(ctx context.Context, cfg config.Config) (func(context.Context), error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) {
		for i := len(shutdowns) - 1; i >= 0; i-- {
			_ = shutdowns[i](ctx)
		}
	}

	if cfg.TelemetryEnabled {
		traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName)
		if err != nil {
			return shutdown, err
		}
		shutdowns = append(shutdowns, traceShutdown)

		logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
		if err != nil {
			return shutdown, err
		}
		shutdowns = append(shutdowns, logShutdown)

		metricShutdown, err := observability.InitMetrics(ctx, cfg.ServiceName)
		if err != nil {
			return shutdown, err
		}
		shutdowns = append(shutdowns, metricShutdown)
	}

	if err := calculator.InitMetrics(); err != nil {
		return shutdown, err
	}

	return shutdown, nil
}

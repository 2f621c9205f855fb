package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"calculator-brain/internal/calculator"
	"calculator-brain/internal/config"
	"calculator-brain/internal/observability"
	"calculator-brain/internal/server"
	"calculator-brain/internal/session"
)

func main() {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Config
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger()
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, logs and metrics
	shutdownTelemetry, err := initTelemetry(ctx, cfg)
	if err != nil {
		panic(err)
	}
	defer shutdownTelemetry(context.Background())

	// Sessions
	store := session.NewStore(session.WithLogger(observability.Logger))
	if err := store.Register(prometheus.DefaultRegisterer); err != nil {
		panic(err)
	}
	go store.Run(ctx, cfg.SessionSweepInterval, cfg.SessionIdleTimeout)

	// Router
	handler := calculator.NewHandler(store, calculator.Options{
		MaxPlotSamples:   cfg.MaxPlotSamples,
		MaxProgramTokens: cfg.MaxProgramTokens,
		MaxBodyBytes:     cfg.MaxBodyBytes,
		PlotVariable:     cfg.PlotVariable,
	})
	router := server.NewRouter(handler, prometheus.DefaultGatherer)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.String("service", cfg.ServiceName),
			zap.Bool("telemetry", cfg.TelemetryEnabled),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv)
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("shutdown failed", zap.Error(err))
	}
}

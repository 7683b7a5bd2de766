package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/water-health-alerting/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/water-health-alerting/internal/adapter/kafka"
	"github.com/couchcryptid/water-health-alerting/internal/config"
	"github.com/couchcryptid/water-health-alerting/internal/observability"
	"github.com/couchcryptid/water-health-alerting/internal/pipeline"
	"github.com/couchcryptid/water-health-alerting/internal/rules"
	"github.com/couchcryptid/water-health-alerting/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	window := store.New(cfg.SignalRetention)
	engine := rules.NewEngine()

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)

	p := pipeline.New(reader, writer, engine, window, clock, logger, metrics, pipeline.Settings{
		BatchSize:    cfg.BatchSize,
		EvalInterval: cfg.EvalInterval,
		AlertLimit:   cfg.AlertLimit,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, window, engine, clock, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start alerting pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}

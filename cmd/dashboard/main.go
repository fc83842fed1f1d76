package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/geomag-metadata-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/geomag-metadata-service/internal/adapter/kafka"
	"github.com/couchcryptid/geomag-metadata-service/internal/adapter/metadata"
	"github.com/couchcryptid/geomag-metadata-service/internal/config"
	"github.com/couchcryptid/geomag-metadata-service/internal/observability"
	"github.com/couchcryptid/geomag-metadata-service/internal/pipeline"
	"github.com/couchcryptid/geomag-metadata-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := metadata.NewClient(metadata.Config{
		BaseURL:           cfg.MetadataBaseURL,
		ObservatoriesPath: cfg.MetadataObservatoriesPath,
		DefinitivesPath:   cfg.MetadataDefinitivesPath,
		Timeout:           cfg.MetadataTimeout,
		RequestsPerSecond: cfg.MetadataRPS,
	}, logger)

	// Publishing is feature-flagged via KAFKA_BROKERS.
	var (
		publisher pipeline.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	s := store.New(clockwork.NewRealClock())
	p := pipeline.New(client, s, publisher, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, s, p, httpadapter.Options{
		PageSize: cfg.DefaultPageSize,
		Pretty:   cfg.HTMLPretty,
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start fetch pipeline.
	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
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
	<-pipelineDone
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

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

	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/adapter/httpapi"
	kafkaadapter "github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/adapter/kafka"
	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/adapter/usgs"
	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/config"
	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/feed"
	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Optional snapshot publisher (feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED).
	var publisher feed.SnapshotPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka snapshot publisher enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka snapshot publisher disabled")
	}

	fetcher := usgs.NewClient(cfg.FeedBaseURL, cfg.FeedTimeout, metrics, logger)
	store := feed.NewStore(logger, metrics)
	refresher := feed.NewRefresher(
		fetcher,
		store,
		publisher,
		logger,
		metrics,
		clockwork.NewRealClock(),
		cfg.RefreshInterval,
		cfg.DefaultRange,
	)

	srv := httpapi.NewServer(cfg.HTTPAddr, refresher, refresher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the default range so /readyz turns green without waiting for a
	// dashboard request or the first refresh tick.
	go func() {
		if _, err := refresher.Select(ctx, cfg.DefaultRange); err != nil && ctx.Err() == nil {
			logger.Error("initial feed fetch failed", "range", cfg.DefaultRange, "error", err)
		}
	}()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the periodic refresh loop.
	go func() {
		if err := refresher.Run(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/neo-scale-service/internal/adapter/feed"
	httpadapter "github.com/couchcryptid/neo-scale-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/neo-scale-service/internal/adapter/kafka"
	"github.com/couchcryptid/neo-scale-service/internal/config"
	"github.com/couchcryptid/neo-scale-service/internal/observability"
	"github.com/couchcryptid/neo-scale-service/internal/pipeline"
	"github.com/couchcryptid/neo-scale-service/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}

	svc, closePublisher := buildService(cfg, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := svc.Run(ctx); err != nil {
			logger.Error("service error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	closePublisher()
	observability.ShutdownTracing(shutdownTracing, logger)

	logger.Info("shutdown complete")
}

// buildService wires the feed source, the optional Kafka publisher and the
// render loop into a Service. The returned func closes the publisher.
func buildService(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*pipeline.Service, func()) {
	var inner feed.Fetcher
	switch cfg.FeedSource {
	case config.FeedSourceNASA:
		inner = feed.NewNASAClient(cfg.NASAAPIURL, cfg.NASAAPIKey, cfg.FeedTimeout, metrics, logger)
	default:
		inner = feed.NewClient(cfg.FeedURL, cfg.FeedTimeout, metrics, logger)
	}
	src := feed.NewCachedSource(inner, cfg.FeedCacheSize, metrics)
	logger.Info("feed source configured", "source", cfg.FeedSource, "cache_size", cfg.FeedCacheSize, "timeout", cfg.FeedTimeout)

	var publisher pipeline.ScenePublisher
	closePublisher := func() {}
	if cfg.KafkaEnabled {
		w := kafkaadapter.NewWriter(cfg, logger)
		publisher = w
		closePublisher = func() {
			if err := w.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}
		logger.Info("scene publishing enabled", "topic", cfg.KafkaSceneTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("scene publishing disabled")
	}

	seed := cfg.ShapeSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	clock := clockwork.NewRealClock()
	animator := session.NewAnimator(clock, cfg.FrameInterval, metrics, logger)
	loader := pipeline.NewLoader(src, pipeline.LoaderConfigFrom(cfg), rng, animator, publisher, logger, metrics)
	return pipeline.NewService(loader, clock, cfg.RefreshInterval, logger, metrics), closePublisher
}

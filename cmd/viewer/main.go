// Command viewer shows the day's NEO scenes in a desktop window. Resizing the
// window re-lays out the scenes the same way the web page does.
package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/neo-scale-service/internal/adapter/feed"
	"github.com/couchcryptid/neo-scale-service/internal/adapter/viewer"
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

	var src feed.Fetcher
	if cfg.FeedSource == config.FeedSourceNASA {
		src = feed.NewNASAClient(cfg.NASAAPIURL, cfg.NASAAPIKey, cfg.FeedTimeout, metrics, logger)
	} else {
		src = feed.NewClient(cfg.FeedURL, cfg.FeedTimeout, metrics, logger)
	}

	seed := cfg.ShapeSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	clock := clockwork.NewRealClock()
	animator := session.NewAnimator(clock, cfg.FrameInterval, metrics, logger)
	loader := pipeline.NewLoader(feed.NewCachedSource(src, cfg.FeedCacheSize, metrics),
		pipeline.LoaderConfigFrom(cfg), rand.New(rand.NewPCG(seed, seed)), animator, nil, logger, metrics)
	svc := pipeline.NewService(loader, clock, cfg.RefreshInterval, logger, metrics)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := svc.Run(ctx); err != nil {
			logger.Error("service error", "error", err)
		}
	}()

	host := viewer.New(ctx, svc, logger)
	if err := host.Run(cfg.ViewportWidth, cfg.ViewportHeight); err != nil {
		logger.Error("viewer error", "error", err)
	}
	stop()
	<-done
	logger.Info("viewer closed")
}

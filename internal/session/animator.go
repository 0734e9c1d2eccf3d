package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/neo-scale-service/internal/observability"
)

// Animator drives the per-scene render loop.
type Animator struct {
	clock    clockwork.Clock
	interval time.Duration
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewAnimator creates an Animator ticking every interval on clock.
func NewAnimator(clock clockwork.Clock, interval time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Animator {
	return &Animator{clock: clock, interval: interval, metrics: metrics, logger: logger}
}

// Run steps and renders e on every tick until ctx is cancelled.
func (a *Animator) Run(ctx context.Context, e *Entry) {
	ticker := a.clock.NewTicker(a.interval)
	defer ticker.Stop()

	a.logger.Debug("render loop started", "neo_id", e.NeoID, "interval", a.interval)
	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("render loop stopped", "neo_id", e.NeoID)
			return
		case <-ticker.Chan():
			start := a.clock.Now()
			e.advance(true)
			a.metrics.FramesRendered.Inc()
			a.metrics.FrameRenderDuration.Observe(a.clock.Since(start).Seconds())
		}
	}
}

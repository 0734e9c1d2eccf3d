package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/couchcryptid/neo-scale-service/internal/config"
	"github.com/couchcryptid/neo-scale-service/internal/domain"
	"github.com/couchcryptid/neo-scale-service/internal/observability"
	"github.com/couchcryptid/neo-scale-service/internal/page"
	"github.com/couchcryptid/neo-scale-service/internal/scene"
	"github.com/couchcryptid/neo-scale-service/internal/session"
)

// FeedSource fetches the feed for one calendar day.
type FeedSource interface {
	Fetch(ctx context.Context, date string) (domain.Feed, error)
}

// ScenePublisher receives the scenes of every successful load.
type ScenePublisher interface {
	PublishScenes(ctx context.Context, fetchDate string, entries []*session.Entry) error
}

// Session is one loaded page together with its live scenes.
type Session struct {
	// Date is the calendar day that was requested.
	Date     string
	Feed     domain.Feed
	Page     *page.Page
	Registry *session.Registry
	LoadedAt time.Time
}

// Close stops every render loop of the session.
func (s *Session) Close() {
	s.Registry.Close()
}

// LoaderConfig holds the viewport a load starts from and the device profile
// thresholds.
type LoaderConfig struct {
	Viewport page.Viewport
	Profile  scene.ProfileConfig
}

// LoaderConfigFrom takes the initial viewport and profile thresholds from cfg.
func LoaderConfigFrom(cfg *config.Config) LoaderConfig {
	return LoaderConfig{
		Viewport: page.Viewport{
			Width:      cfg.ViewportWidth,
			Height:     cfg.ViewportHeight,
			PixelRatio: cfg.PixelRatio,
		},
		Profile: scene.ProfileConfig{
			MobileBreakpoint:   cfg.MobileBreakpoint,
			DesktopScaleFactor: cfg.DesktopScaleFactor,
			MobileScaleFactor:  cfg.MobileScaleFactor,
		},
	}
}

// Loader fetches the daily feed and turns it into a page with one panel and
// one animated scene per record.
type Loader struct {
	source    FeedSource
	placer    *ScenePlacer
	publisher ScenePublisher
	animator  *session.Animator
	profile   scene.ProfileConfig
	rng       *rand.Rand
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu       sync.Mutex
	viewport page.Viewport
}

// NewLoader creates a Loader. rng seeds the comparison shapes; publisher and
// animator may be nil.
func NewLoader(src FeedSource, cfg LoaderConfig, rng *rand.Rand, animator *session.Animator, publisher ScenePublisher, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		source:    src,
		placer:    NewScenePlacer(logger, metrics),
		publisher: publisher,
		animator:  animator,
		profile:   cfg.Profile,
		rng:       rng,
		logger:    logger,
		metrics:   metrics,
		viewport:  cfg.Viewport,
	}
}

// SetViewport records the viewport the next load lays out for.
func (l *Loader) SetViewport(vp page.Viewport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.viewport = vp
}

// Viewport returns the viewport the next load lays out for.
func (l *Loader) Viewport() page.Viewport {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.viewport
}

// Load fetches today's feed and builds the page. Any fetch failure is logged
// and returned with no page built. Records are placed in feed order.
func (l *Loader) Load(ctx context.Context) (*Session, error) {
	start := time.Now()
	date := domain.Today()

	ctx, span := observability.Tracer().Start(ctx, "feed.load", trace.WithAttributes(
		attribute.String("feed.fetch_date", date),
	))
	defer span.End()

	feed, err := l.source.Fetch(ctx, date)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			l.logger.Error("no NEO data found", "fetch_date", date)
		} else {
			l.logger.Error("error fetching NEO data", "fetch_date", date, "error", err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch feed for %s: %w", date, err)
	}

	vp := l.Viewport()
	p := page.New(vp, l.profile.MobileBreakpoint)
	p.SetHeader(feed.FetchDate, len(feed.Neos))

	reg := session.NewRegistry(p, l.animator, l.metrics, l.logger)
	profile := scene.ResolveProfile(vp.Width, l.profile)
	builder := scene.NewBuilder(profile, l.rng, l.logger)

	placed := 0
	for _, rec := range feed.Neos {
		p.Append(page.NewPanel(rec))
		ok, err := l.placer.Place(ctx, builder, p, reg, rec)
		if err != nil {
			l.logger.Warn("scene build failed, panel kept without visual", "neo_id", rec.ID, "error", err)
			p.RemoveSlot(rec.ID)
			continue
		}
		if ok {
			placed++
		}
	}

	l.metrics.RecordsLoaded.Add(float64(len(feed.Neos)))
	l.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("feed.count", len(feed.Neos)))
	l.logger.Info("NEO data loaded",
		"fetch_date", feed.FetchDate,
		"count", len(feed.Neos),
		"scenes", placed,
		"device", profile.Class,
		"scale_factor", profile.ScaleFactor,
	)

	l.publish(ctx, feed.FetchDate, reg)

	return &Session{Date: date, Feed: feed, Page: p, Registry: reg, LoadedAt: start}, nil
}

func (l *Loader) publish(ctx context.Context, fetchDate string, reg *session.Registry) {
	if l.publisher == nil {
		return
	}
	ids := reg.IDs()
	entries := make([]*session.Entry, 0, len(ids))
	for _, id := range ids {
		if e, ok := reg.Get(id); ok {
			entries = append(entries, e)
		}
	}
	if err := l.publisher.PublishScenes(ctx, fetchDate, entries); err != nil {
		l.metrics.PublishErrors.Inc()
		l.logger.Error("publish scenes failed", "fetch_date", fetchDate, "error", err)
	}
}

package pipeline

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
	"github.com/couchcryptid/neo-scale-service/internal/observability"
	"github.com/couchcryptid/neo-scale-service/internal/page"
	"github.com/couchcryptid/neo-scale-service/internal/render"
	"github.com/couchcryptid/neo-scale-service/internal/scene"
	"github.com/couchcryptid/neo-scale-service/internal/session"
)

// SceneBuilder builds the scene and camera for one record.
type SceneBuilder interface {
	Build(rec domain.NeoRecord, aspect float64) (*scene.Scene, *scene.Camera, error)
}

// ScenePlacer builds a record's scene into its visual slot and registers it.
type ScenePlacer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewScenePlacer creates a ScenePlacer.
func NewScenePlacer(logger *slog.Logger, metrics *observability.Metrics) *ScenePlacer {
	return &ScenePlacer{logger: logger, metrics: metrics}
}

// Place builds rec into its slot on p and registers the result with reg. A
// record without a slot is skipped and reported as not placed.
func (sp *ScenePlacer) Place(ctx context.Context, b SceneBuilder, p *page.Page, reg *session.Registry, rec domain.NeoRecord) (bool, error) {
	slot, ok := p.Slot(rec.ID)
	if !ok {
		sp.logger.Debug("no visual slot, skipping scene", "neo_id", rec.ID)
		return false, nil
	}

	_, span := observability.Tracer().Start(ctx, "scene.build", trace.WithAttributes(
		attribute.String("neo.id", rec.ID),
		attribute.Int("slot.width", slot.Width),
		attribute.Int("slot.height", slot.Height),
	))
	defer span.End()

	s, cam, err := b.Build(rec, slot.Aspect())
	if err != nil {
		sp.metrics.BuildErrors.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	r := render.New(slot.Width, slot.Height)
	r.SetPixelRatio(p.Viewport().PixelRatio)
	reg.Register(rec.ID, session.NewEntry(rec, s, cam, r))
	return true, nil
}

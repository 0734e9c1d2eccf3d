package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
	"github.com/couchcryptid/neo-scale-service/internal/observability"
	"github.com/couchcryptid/neo-scale-service/internal/page"
	"github.com/couchcryptid/neo-scale-service/internal/scene"
	"github.com/couchcryptid/neo-scale-service/internal/session"
)

type failingBuilder struct{ calls int }

func (b *failingBuilder) Build(domain.NeoRecord, float64) (*scene.Scene, *scene.Camera, error) {
	b.calls++
	return nil, nil, errors.New("degenerate")
}

func TestScenePlacer_MissingSlotIsNoop(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	p := page.New(page.Viewport{Width: 1280, Height: 800, PixelRatio: 1}, 768)
	reg := session.NewRegistry(p, nil, metrics, logger)
	t.Cleanup(reg.Close)

	b := &failingBuilder{}
	ok, err := NewScenePlacer(logger, metrics).Place(context.Background(), b, p, reg, domain.NeoRecord{ID: "ghost"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, b.calls, "builder is not invoked without a slot")
	assert.Zero(t, reg.Len())
}

func TestScenePlacer_BuildError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	p := page.New(page.Viewport{Width: 1280, Height: 800, PixelRatio: 1}, 768)
	reg := session.NewRegistry(p, nil, metrics, logger)
	t.Cleanup(reg.Close)

	rec := domain.NeoRecord{ID: "1"}
	p.Append(page.NewPanel(rec))

	ok, err := NewScenePlacer(logger, metrics).Place(context.Background(), &failingBuilder{}, p, reg, rec)
	require.Error(t, err)
	assert.False(t, ok)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.BuildErrors), 0)
}

package session

import (
	"context"
	"image"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
	"github.com/couchcryptid/neo-scale-service/internal/observability"
	"github.com/couchcryptid/neo-scale-service/internal/page"
	"github.com/couchcryptid/neo-scale-service/internal/render"
	"github.com/couchcryptid/neo-scale-service/internal/scene"
)

const (
	testInterval   = 33 * time.Millisecond
	testBreakpoint = 768
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord(id string) domain.NeoRecord {
	return domain.NeoRecord{
		ID:   id,
		Name: "test " + id,
		EstimatedDiameter: domain.EstimatedDiameter{
			Kilometers: domain.DiameterRange{Min: domain.NewNumber(0.4), Max: domain.NewNumber(0.6)},
		},
	}
}

type fixture struct {
	clock    *clockwork.FakeClock
	metrics  *observability.Metrics
	page     *page.Page
	registry *Registry
	builder  *scene.Builder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:   clockwork.NewFakeClock(),
		metrics: observability.NewMetricsForTesting(),
		page:    page.New(page.Viewport{Width: 1280, Height: 800, PixelRatio: 1}, testBreakpoint),
		builder: scene.NewBuilder(scene.Profile{Class: scene.Desktop, ScaleFactor: 700}, rand.New(rand.NewPCG(1, 2)), discardLogger()),
	}
	anim := NewAnimator(f.clock, testInterval, f.metrics, discardLogger())
	f.registry = NewRegistry(f.page, anim, f.metrics, discardLogger())
	t.Cleanup(f.registry.Close)
	return f
}

func (f *fixture) add(t *testing.T, id string) *Entry {
	t.Helper()
	rec := testRecord(id)
	f.page.Append(page.NewPanel(rec))
	slot, ok := f.page.Slot(id)
	require.True(t, ok)

	s, cam, err := f.builder.Build(rec, slot.Aspect())
	require.NoError(t, err)
	r := render.New(slot.Width, slot.Height)
	r.SetPixelRatio(f.page.Viewport().PixelRatio)

	e := NewEntry(rec, s, cam, r)
	f.registry.Register(id, e)
	return e
}

func TestRegister_RendersFirstFrame(t *testing.T) {
	f := newFixture(t)
	e := f.add(t, "a")

	frame := e.Frame()
	require.NotNil(t, frame)
	assert.Equal(t, image.Rect(0, 0, 640, 300), frame.Bounds())
	assert.Equal(t, []string{"a"}, f.registry.IDs())
	assert.InDelta(t, 1.0, testutil.ToFloat64(f.metrics.ActiveScenes), 0)
}

func TestAnimator_StepsOnTick(t *testing.T) {
	f := newFixture(t)
	e := f.add(t, "a")

	frames, cancel := e.Subscribe()
	defer cancel()

	ctx, done := context.WithTimeout(context.Background(), time.Second)
	defer done()
	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))

	f.clock.Advance(testInterval)
	select {
	case img := <-frames:
		assert.Same(t, img, e.Frame())
	case <-time.After(time.Second):
		t.Fatal("no frame after tick")
	}

	d := e.Descriptor()
	assert.InDelta(t, 0.01, d.Reference.Rotation[1], 1e-12)
	assert.InDelta(t, 0.01, d.Comparison.Rotation[0], 1e-12)
	assert.InDelta(t, 0.01, d.Comparison.Rotation[1], 1e-12)
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(f.metrics.FramesRendered) >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestRegister_ReplacesExisting(t *testing.T) {
	f := newFixture(t)
	first := f.add(t, "a")
	frames, _ := first.Subscribe()

	second := NewEntry(first.Record, first.Scene, first.Camera, render.New(10, 10))
	f.registry.Register("a", second)

	got, ok := f.registry.Get("a")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, f.registry.Len())

	_, open := <-frames
	assert.False(t, open, "subscribers of the replaced entry are closed")
	assert.InDelta(t, 1.0, testutil.ToFloat64(f.metrics.ActiveScenes), 0)
}

func TestResize_PreservesIdentities(t *testing.T) {
	f := newFixture(t)
	e := f.add(t, "a")
	f.add(t, "b")

	s, cam, r := e.Scene, e.Camera, e.Renderer

	n := f.registry.Resize(page.Viewport{Width: 600, Height: 900, PixelRatio: 2})
	assert.Equal(t, 2, n)

	got, ok := f.registry.Get("a")
	require.True(t, ok)
	assert.Same(t, s, got.Scene)
	assert.Same(t, cam, got.Camera)
	assert.Same(t, r, got.Renderer)

	w, h := r.Size()
	assert.Equal(t, 600, w)
	assert.Equal(t, 250, h)
	assert.InDelta(t, 2.0, r.PixelRatio(), 0)
	assert.InDelta(t, 600.0/250, cam.Aspect, 1e-12)
	assert.InDelta(t, 600.0/250, cam.ProjectionAspect(), 1e-12)
	assert.InDelta(t, 1.0, testutil.ToFloat64(f.metrics.ResizeEvents), 0)
}

func TestResize_SkipsMissingSlot(t *testing.T) {
	f := newFixture(t)
	e := f.add(t, "a")
	f.add(t, "b")
	f.page.RemoveSlot("a")

	n := f.registry.Resize(page.Viewport{Width: 600, Height: 900, PixelRatio: 1})
	assert.Equal(t, 1, n)

	w, _ := e.Renderer.Size()
	assert.Equal(t, 640, w, "entry without a slot is left alone")
}

func TestDispose(t *testing.T) {
	f := newFixture(t)
	f.add(t, "a")
	f.add(t, "b")

	assert.True(t, f.registry.Dispose("a"))
	assert.False(t, f.registry.Dispose("a"))
	assert.Equal(t, []string{"b"}, f.registry.IDs())
	_, ok := f.registry.Get("a")
	assert.False(t, ok)
}

func TestClose_StopsAllLoops(t *testing.T) {
	f := newFixture(t)
	a := f.add(t, "a")
	f.add(t, "b")

	frames, _ := a.Subscribe()
	f.registry.Close()

	assert.Zero(t, f.registry.Len())
	assert.InDelta(t, 0.0, testutil.ToFloat64(f.metrics.ActiveScenes), 0)
	_, open := <-frames
	assert.False(t, open)

	late, _ := a.Subscribe()
	_, open = <-late
	assert.False(t, open, "subscribing to a disposed entry yields a closed channel")
}

func TestSubscribe_DropsForSlowSubscriber(t *testing.T) {
	f := newFixture(t)
	e := f.add(t, "a")

	frames, cancel := e.Subscribe()
	e.advance(true)
	e.advance(true)

	first := <-frames
	assert.NotNil(t, first)
	select {
	case <-frames:
		t.Fatal("second frame should have been dropped")
	default:
	}
	cancel()
	cancel()
}

package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/couchcryptid/neo-scale-service/internal/domain"
	"github.com/couchcryptid/neo-scale-service/internal/geometry"
)

const (
	// ShapePointCount is the number of random points the comparison hull is
	// built from.
	ShapePointCount = 30

	hullAttempts = 3

	cameraFOV  = 60.0
	cameraNear = 0.1
	cameraFar  = 10000.0
)

// Builder constructs scenes for NEO records using a resolved profile.
type Builder struct {
	profile Profile
	logger  *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBuilder creates a Builder. rng drives the comparison shape; pass a seeded
// source for reproducible shapes.
func NewBuilder(profile Profile, rng *rand.Rand, logger *slog.Logger) *Builder {
	return &Builder{profile: profile, rng: rng, logger: logger}
}

// Profile returns the profile scenes are built with.
func (b *Builder) Profile() Profile {
	return b.profile
}

// Build creates the scene and camera for rec. aspect is the width/height of
// the visual slot the scene renders into.
func (b *Builder) Build(rec domain.NeoRecord, aspect float64) (*Scene, *Camera, error) {
	hull, err := b.comparisonMesh()
	if err != nil {
		return nil, nil, fmt.Errorf("build comparison shape for %s: %w", rec.ID, err)
	}

	median := rec.MedianDiameterKm()
	if math.IsNaN(median) || math.IsInf(median, 0) || median < 0 {
		b.logger.Warn("invalid estimated diameter, using minimum scale",
			"neo_id", rec.ID,
			"min_km", rec.EstimatedDiameter.Kilometers.Min.String(),
			"max_km", rec.EstimatedDiameter.Kilometers.Max.String(),
		)
	}

	layout := ComputeLayout(median, b.profile.ScaleFactor, hull.Size())
	h := layout.ReferenceHeight

	s := &Scene{
		ID: rec.ID,
		Reference: &Object{
			Name:      "reference",
			Mesh:      geometry.NewBox(h/2, h, h/2),
			Position:  r3.Vec{X: -layout.Spacing},
			Scale:     1,
			Color:     ReferenceColor,
			Wireframe: true,
		},
		Comparison: &Object{
			Name:      "comparison",
			Mesh:      hull,
			Position:  r3.Vec{X: layout.Spacing},
			Scale:     layout.ComparisonScale,
			Color:     ComparisonColor,
			Wireframe: true,
		},
		Layout: layout,
	}

	cam := NewCamera(cameraFOV, aspect, cameraNear, cameraFar)
	cam.Position = r3.Vec{Z: layout.CameraDistance}
	cam.LookAt(r3.Vec{})

	return s, cam, nil
}

func (b *Builder) comparisonMesh() (*geometry.Mesh, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	for range hullAttempts {
		var hull *geometry.Mesh
		hull, err = geometry.ConvexHull(geometry.RandomPointCloud(b.rng, ShapePointCount))
		if err == nil {
			return hull, nil
		}
		if !errors.Is(err, geometry.ErrDegenerateHull) {
			return nil, err
		}
	}
	return nil, err
}

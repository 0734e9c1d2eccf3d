package geometry

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewBox_Dimensions(t *testing.T) {
	m := NewBox(2, 4, 6)

	size := m.Size()
	assert.InDelta(t, 2.0, size.X, 1e-12)
	assert.InDelta(t, 4.0, size.Y, 1e-12)
	assert.InDelta(t, 6.0, size.Z, 1e-12)

	b := m.Bounds()
	assert.InDelta(t, -1.0, b.Min.X, 1e-12)
	assert.InDelta(t, 3.0, b.Max.Z, 1e-12)

	assert.Len(t, m.Faces, 12)
	// 12 box edges plus one diagonal per side.
	assert.Len(t, m.Edges(), 18)
}

func TestNewBox_FacesPointOutward(t *testing.T) {
	m := NewBox(1, 1, 1)
	for i, f := range m.Faces {
		n := m.FaceNormal(i)
		c := r3.Scale(1.0/3, r3.Add(r3.Add(m.Vertices[f[0]], m.Vertices[f[1]]), m.Vertices[f[2]]))
		assert.Positive(t, r3.Dot(n, c), "face %d points inward", i)
	}
}

func TestConvexHull_CubeWithInteriorPoints(t *testing.T) {
	pts := NewBox(1, 1, 1).Vertices
	pts = append(pts,
		r3.Vec{X: 0, Y: 0, Z: 0},
		r3.Vec{X: 0.1, Y: -0.2, Z: 0.3},
		r3.Vec{X: -0.4, Y: 0.4, Z: -0.1},
	)

	hull, err := ConvexHull(pts)
	require.NoError(t, err)

	assert.Len(t, hull.Vertices, 8)
	assert.Len(t, hull.Faces, 12)
	assertClosedSurface(t, hull)
	assertContains(t, hull, pts)
}

func TestConvexHull_RandomCloud(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	pts := RandomPointCloud(rng, 30)

	hull, err := ConvexHull(pts)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(hull.Vertices), 4)
	assert.LessOrEqual(t, len(hull.Vertices), 30)
	assertClosedSurface(t, hull)
	assertContains(t, hull, pts)

	size := hull.Size()
	for _, s := range []float64{size.X, size.Y, size.Z} {
		assert.Positive(t, s)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestConvexHull_SameInputSameMesh(t *testing.T) {
	pts := RandomPointCloud(rand.New(rand.NewPCG(9, 9)), 30)

	first, err := ConvexHull(pts)
	require.NoError(t, err)
	for range 20 {
		again, err := ConvexHull(pts)
		require.NoError(t, err)
		require.Equal(t, first.Vertices, again.Vertices)
		require.Equal(t, first.Faces, again.Faces)
	}
}

func TestConvexHull_Degenerate(t *testing.T) {
	t.Run("too few points", func(t *testing.T) {
		_, err := ConvexHull([]r3.Vec{{}, {X: 1}, {Y: 1}})
		assert.ErrorIs(t, err, ErrDegenerateHull)
	})

	t.Run("coplanar points", func(t *testing.T) {
		_, err := ConvexHull([]r3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}, {X: 0.5, Y: 0.2}})
		assert.ErrorIs(t, err, ErrDegenerateHull)
	})

	t.Run("identical points", func(t *testing.T) {
		p := r3.Vec{X: 0.3, Y: 0.3, Z: 0.3}
		_, err := ConvexHull([]r3.Vec{p, p, p, p})
		assert.ErrorIs(t, err, ErrDegenerateHull)
	})
}

func TestRandomPointCloud_InUnitCube(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, p := range RandomPointCloud(rng, 500) {
		for _, c := range []float64{p.X, p.Y, p.Z} {
			assert.GreaterOrEqual(t, c, -0.5)
			assert.Less(t, c, 0.5)
		}
	}
}

// assertClosedSurface checks the hull is a closed 2-manifold: every edge is
// shared by exactly two faces and V - E + F = 2.
func assertClosedSurface(t *testing.T, m *Mesh) {
	t.Helper()
	count := make(map[Edge]int)
	for _, f := range m.Faces {
		for i := range 3 {
			count[newEdge(f[i], f[(i+1)%3])]++
		}
	}
	for e, n := range count {
		assert.Equal(t, 2, n, "edge %v", e)
	}
	assert.Equal(t, 2, len(m.Vertices)-len(m.Edges())+len(m.Faces))
}

func assertContains(t *testing.T, m *Mesh, pts []r3.Vec) {
	t.Helper()
	for i := range m.Faces {
		n := m.FaceNormal(i)
		origin := m.Vertices[m.Faces[i][0]]
		for _, p := range pts {
			assert.LessOrEqual(t, r3.Dot(n, r3.Sub(p, origin)), 1e-7)
		}
	}
}

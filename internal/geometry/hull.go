package geometry

import (
	"errors"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDegenerateHull is returned when the input points do not span a volume.
var ErrDegenerateHull = errors.New("points are coplanar or too few to form a hull")

const hullEpsilon = 1e-9

// RandomPointCloud returns n points uniformly distributed in the cube
// [-0.5, 0.5]³.
func RandomPointCloud(rng *rand.Rand, n int) []r3.Vec {
	pts := make([]r3.Vec, n)
	for i := range pts {
		pts[i] = r3.Vec{
			X: rng.Float64() - 0.5,
			Y: rng.Float64() - 0.5,
			Z: rng.Float64() - 0.5,
		}
	}
	return pts
}

type hullFace struct {
	v      Face
	normal r3.Vec
	offset float64 // normal · v[0]
	alive  bool
}

func (f *hullFace) distance(p r3.Vec) float64 {
	return r3.Dot(f.normal, p) - f.offset
}

// ConvexHull computes the convex hull of points with an incremental algorithm.
// Faces are oriented outward. Vertices of the result are the hull's extreme
// points only, reindexed from zero.
func ConvexHull(points []r3.Vec) (*Mesh, error) {
	if len(points) < 4 {
		return nil, ErrDegenerateHull
	}

	seed, err := initialTetrahedron(points)
	if err != nil {
		return nil, err
	}

	var centroid r3.Vec
	for _, i := range seed {
		centroid = r3.Add(centroid, points[i])
	}
	centroid = r3.Scale(0.25, centroid)

	faces := make([]*hullFace, 0, 32)
	addFace := func(a, b, c int) {
		f := newHullFace(points, a, b, c)
		if f.distance(centroid) > 0 {
			f = newHullFace(points, a, c, b)
		}
		faces = append(faces, f)
	}
	addFace(seed[0], seed[1], seed[2])
	addFace(seed[0], seed[1], seed[3])
	addFace(seed[0], seed[2], seed[3])
	addFace(seed[1], seed[2], seed[3])

	inSeed := map[int]bool{seed[0]: true, seed[1]: true, seed[2]: true, seed[3]: true}
	for i, p := range points {
		if inSeed[i] {
			continue
		}

		visible := make(map[[2]int]bool)
		var removed []*hullFace
		for _, f := range faces {
			if !f.alive || f.distance(p) <= hullEpsilon {
				continue
			}
			f.alive = false
			removed = append(removed, f)
			for k := range 3 {
				visible[[2]int{f.v[k], f.v[(k+1)%3]}] = true
			}
		}
		if len(removed) == 0 {
			continue
		}

		// A directed edge of a removed face whose reverse was not removed lies
		// on the horizon. Keeping its direction keeps the new face outward.
		// Walking removed faces in slice order keeps the output stable.
		for _, f := range removed {
			for k := range 3 {
				a, b := f.v[k], f.v[(k+1)%3]
				if visible[[2]int{b, a}] {
					continue
				}
				faces = append(faces, newHullFace(points, a, b, i))
			}
		}
	}

	return compactHull(points, faces), nil
}

func newHullFace(points []r3.Vec, a, b, c int) *hullFace {
	n := r3.Unit(r3.Cross(r3.Sub(points[b], points[a]), r3.Sub(points[c], points[a])))
	return &hullFace{
		v:      Face{a, b, c},
		normal: n,
		offset: r3.Dot(n, points[a]),
		alive:  true,
	}
}

// initialTetrahedron picks four points spanning a non-degenerate volume.
func initialTetrahedron(points []r3.Vec) ([4]int, error) {
	var idx [4]int

	a := 0
	b, best := -1, 0.0
	for i, p := range points {
		if d := r3.Norm(r3.Sub(p, points[a])); d > best {
			b, best = i, d
		}
	}
	if b < 0 || best < hullEpsilon {
		return idx, ErrDegenerateHull
	}

	ab := r3.Sub(points[b], points[a])
	c, best := -1, 0.0
	for i, p := range points {
		if d := r3.Norm(r3.Cross(ab, r3.Sub(p, points[a]))); d > best {
			c, best = i, d
		}
	}
	if c < 0 || best < hullEpsilon {
		return idx, ErrDegenerateHull
	}

	n := r3.Cross(ab, r3.Sub(points[c], points[a]))
	d, best := -1, 0.0
	for i, p := range points {
		if dist := math.Abs(r3.Dot(n, r3.Sub(p, points[a]))); dist > best {
			d, best = i, dist
		}
	}
	if d < 0 || best < hullEpsilon {
		return idx, ErrDegenerateHull
	}

	idx = [4]int{a, b, c, d}
	return idx, nil
}

func compactHull(points []r3.Vec, faces []*hullFace) *Mesh {
	remap := make(map[int]int)
	m := &Mesh{}
	for _, f := range faces {
		if !f.alive {
			continue
		}
		var nf Face
		for k, v := range f.v {
			j, ok := remap[v]
			if !ok {
				j = len(m.Vertices)
				remap[v] = j
				m.Vertices = append(m.Vertices, points[v])
			}
			nf[k] = j
		}
		m.Faces = append(m.Faces, nf)
	}
	return m
}

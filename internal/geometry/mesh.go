// Package geometry builds the triangle meshes drawn in a comparison scene.
package geometry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Face is a triangle given by counter-clockwise vertex indices when viewed
// from outside the mesh.
type Face [3]int

// Edge is an undirected vertex pair with A < B.
type Edge struct {
	A, B int
}

// Mesh is an indexed triangle mesh in local coordinates.
type Mesh struct {
	Vertices []r3.Vec
	Faces    []Face
}

// Bounds returns the axis-aligned bounding box of the vertices. An empty mesh
// yields the zero box.
func (m *Mesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}
	lo := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range m.Vertices {
		lo = r3.Vec{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y), Z: math.Min(lo.Z, v.Z)}
		hi = r3.Vec{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y), Z: math.Max(hi.Z, v.Z)}
	}
	return r3.Box{Min: lo, Max: hi}
}

// Size returns the extent of the bounding box along each axis.
func (m *Mesh) Size() r3.Vec {
	b := m.Bounds()
	return r3.Sub(b.Max, b.Min)
}

// Edges returns every distinct triangle edge, sorted. This is the set a
// wireframe renderer strokes.
func (m *Mesh) Edges() []Edge {
	seen := make(map[Edge]struct{}, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		for i := range 3 {
			e := newEdge(f[i], f[(i+1)%3])
			seen[e] = struct{}{}
		}
	}
	edges := make([]Edge, 0, len(seen))
	for e := range seen {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
	return edges
}

// FaceNormal returns the unit outward normal of face i.
func (m *Mesh) FaceNormal(i int) r3.Vec {
	f := m.Faces[i]
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	return r3.Unit(r3.Cross(r3.Sub(b, a), r3.Sub(c, a)))
}

func newEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

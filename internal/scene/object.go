package scene

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/couchcryptid/neo-scale-service/internal/geometry"
)

// Object is a mesh placed in the scene. Transforms apply scale, then rotation
// (Euler XYZ, radians), then translation.
type Object struct {
	Name      string
	Mesh      *geometry.Mesh
	Position  r3.Vec
	Rotation  r3.Vec
	Scale     float64
	Color     color.RGBA
	Wireframe bool
}

// Size is the bounding extent of the scaled, unrotated mesh.
func (o *Object) Size() r3.Vec {
	return r3.Scale(o.Scale, o.Mesh.Size())
}

// WorldVertices returns the mesh vertices in scene coordinates.
func (o *Object) WorldVertices() []r3.Vec {
	out := make([]r3.Vec, len(o.Mesh.Vertices))
	for i, v := range o.Mesh.Vertices {
		out[i] = r3.Add(o.Position, rotateEuler(r3.Scale(o.Scale, v), o.Rotation))
	}
	return out
}

// rotateEuler applies R = Rx·Ry·Rz to v.
func rotateEuler(v, e r3.Vec) r3.Vec {
	if e.Z != 0 {
		s, c := math.Sincos(e.Z)
		v = r3.Vec{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y, Z: v.Z}
	}
	if e.Y != 0 {
		s, c := math.Sincos(e.Y)
		v = r3.Vec{X: c*v.X + s*v.Z, Y: v.Y, Z: -s*v.X + c*v.Z}
	}
	if e.X != 0 {
		s, c := math.Sincos(e.X)
		v = r3.Vec{X: v.X, Y: c*v.Y - s*v.Z, Z: s*v.Y + c*v.Z}
	}
	return v
}

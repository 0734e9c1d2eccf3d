package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a perspective camera. Changes to FOV, Aspect, Near or Far take
// effect after UpdateProjection.
type Camera struct {
	FOV    float64 // vertical field of view in degrees
	Aspect float64
	Near   float64
	Far    float64

	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec

	focal  float64
	aspect float64
	near   float64
	far    float64
}

// NewCamera returns a camera at the origin looking down -z with its
// projection already computed.
func NewCamera(fov, aspect, near, far float64) *Camera {
	c := &Camera{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Target: r3.Vec{Z: -1},
		Up:     r3.Vec{Y: 1},
	}
	c.UpdateProjection()
	return c
}

// LookAt aims the camera at target.
func (c *Camera) LookAt(target r3.Vec) {
	c.Target = target
}

// UpdateProjection recomputes the projection from the current parameters.
func (c *Camera) UpdateProjection() {
	c.focal = 1 / math.Tan(c.FOV*math.Pi/360)
	c.aspect = c.Aspect
	c.near = c.Near
	c.far = c.Far
}

// ProjectionAspect returns the aspect ratio the projection was last computed
// with.
func (c *Camera) ProjectionAspect() float64 {
	return c.aspect
}

// View transforms a scene point into camera space, where the camera looks
// down -z.
func (c *Camera) View(p r3.Vec) r3.Vec {
	z := r3.Unit(r3.Sub(c.Position, c.Target))
	x := r3.Unit(r3.Cross(c.Up, z))
	y := r3.Cross(z, x)
	d := r3.Sub(p, c.Position)
	return r3.Vec{X: r3.Dot(d, x), Y: r3.Dot(d, y), Z: r3.Dot(d, z)}
}

// Project maps a camera-space point to normalized device coordinates in
// [-1, 1]. ok is false when the point lies outside the near/far range.
func (c *Camera) Project(v r3.Vec) (ndcX, ndcY float64, ok bool) {
	depth := -v.Z
	if depth < c.near || depth > c.far {
		return 0, 0, false
	}
	return c.focal / c.aspect * v.X / depth, c.focal * v.Y / depth, true
}

// NearPlane returns the near clip distance of the current projection.
func (c *Camera) NearPlane() float64 {
	return c.near
}

// Package render draws comparison scenes as wireframes into RGBA canvases.
package render

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/couchcryptid/neo-scale-service/internal/scene"
)

// DefaultLineWidth is the stroke width in CSS pixels.
const DefaultLineWidth = 1.0

// Renderer is a software wireframe renderer with a transparent background.
// The canvas is the CSS size multiplied by the pixel ratio. A Renderer is not
// safe for concurrent use.
type Renderer struct {
	width      int
	height     int
	pixelRatio float64
	lineWidth  float64
	ras        *vector.Rasterizer
}

// New creates a renderer for a width×height CSS-pixel surface at pixel ratio 1.
func New(width, height int) *Renderer {
	r := &Renderer{pixelRatio: 1, lineWidth: DefaultLineWidth, ras: &vector.Rasterizer{}}
	r.SetSize(width, height)
	return r
}

// SetSize sets the surface size in CSS pixels. Sizes below one are raised to one.
func (r *Renderer) SetSize(width, height int) {
	r.width = max(width, 1)
	r.height = max(height, 1)
}

// SetPixelRatio sets the device pixel ratio. Non-positive values reset it to 1.
func (r *Renderer) SetPixelRatio(ratio float64) {
	if ratio <= 0 || math.IsNaN(ratio) {
		ratio = 1
	}
	r.pixelRatio = ratio
}

// Size returns the surface size in CSS pixels.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// PixelRatio returns the device pixel ratio.
func (r *Renderer) PixelRatio() float64 {
	return r.pixelRatio
}

// CanvasSize returns the backing canvas size in device pixels.
func (r *Renderer) CanvasSize() (width, height int) {
	return int(math.Ceil(float64(r.width) * r.pixelRatio)), int(math.Ceil(float64(r.height) * r.pixelRatio))
}

// Render draws every wireframe object of s as seen from cam into a new canvas.
func (r *Renderer) Render(s *scene.Scene, cam *scene.Camera) *image.RGBA {
	w, h := r.CanvasSize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	half := r.lineWidth * r.pixelRatio / 2

	for _, obj := range s.Objects() {
		if obj == nil || !obj.Wireframe {
			continue
		}
		r.ras.Reset(w, h)
		r.ras.DrawOp = draw.Over

		world := obj.WorldVertices()
		view := make([]r3.Vec, len(world))
		for i, p := range world {
			view[i] = cam.View(p)
		}

		var strokes int
		for _, e := range obj.Mesh.Edges() {
			x0, y0, x1, y1, ok := r.projectSegment(cam, view[e.A], view[e.B], float64(w), float64(h))
			if !ok {
				continue
			}
			r.strokeSegment(x0, y0, x1, y1, half, float64(w), float64(h))
			strokes++
		}
		if strokes > 0 {
			r.ras.Draw(img, img.Bounds(), image.NewUniform(obj.Color), image.Point{})
		}
	}
	return img
}

// projectSegment clips a camera-space segment to the near plane, projects it
// and clips it to the canvas. Coordinates are in device pixels.
func (r *Renderer) projectSegment(cam *scene.Camera, a, b r3.Vec, w, h float64) (x0, y0, x1, y1 float64, ok bool) {
	near := -cam.NearPlane()
	if a.Z > near && b.Z > near {
		return 0, 0, 0, 0, false
	}
	if a.Z > near {
		a = lerp(b, a, (near-b.Z)/(a.Z-b.Z))
	} else if b.Z > near {
		b = lerp(a, b, (near-a.Z)/(b.Z-a.Z))
	}

	ax, ay, okA := cam.Project(a)
	bx, by, okB := cam.Project(b)
	if !okA || !okB {
		return 0, 0, 0, 0, false
	}

	x0, y0 = (ax+1)/2*w, (1-ay)/2*h
	x1, y1 = (bx+1)/2*w, (1-by)/2*h
	return clipToRect(x0, y0, x1, y1, w, h)
}

// strokeSegment adds a quad of half-width half around the segment to the
// rasterizer path. Quads share orientation so overlaps accumulate.
func (r *Renderer) strokeSegment(x0, y0, x1, y1, half, w, h float64) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		dx, dy, l = 1, 0, 1
	}
	nx, ny := -dy/l*half, dx/l*half

	pt := func(x, y float64) (float32, float32) {
		return float32(clamp(x, 0, w)), float32(clamp(y, 0, h))
	}
	r.ras.MoveTo(pt(x0+nx, y0+ny))
	r.ras.LineTo(pt(x1+nx, y1+ny))
	r.ras.LineTo(pt(x1-nx, y1-ny))
	r.ras.LineTo(pt(x0-nx, y0-ny))
	r.ras.ClosePath()
}

func lerp(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// clipToRect is Liang–Barsky clipping against [0,w]×[0,h].
func clipToRect(x0, y0, x1, y1, w, h float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	for _, c := range [4][2]float64{{-dx, x0}, {dx, w - x0}, {-dy, y0}, {dy, h - y0}} {
		p, q := c[0], c[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

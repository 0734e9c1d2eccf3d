package scene

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// Per-frame rotation deltas in radians.
const (
	referenceSpin  = 0.01
	comparisonSpin = 0.01
)

var (
	ReferenceColor  = color.RGBA{R: 0xcc, G: 0x00, B: 0xff, A: 0xff}
	ComparisonColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Scene is the comparison scene for one NEO record.
type Scene struct {
	ID         string
	Reference  *Object
	Comparison *Object
	Layout     Layout
}

// Objects returns the drawable objects in draw order.
func (s *Scene) Objects() []*Object {
	return []*Object{s.Reference, s.Comparison}
}

// Step advances the animation by one frame: the reference spins about y, the
// comparison tumbles about x and y.
func (s *Scene) Step() {
	s.Reference.Rotation = r3.Add(s.Reference.Rotation, r3.Vec{Y: referenceSpin})
	s.Comparison.Rotation = r3.Add(s.Comparison.Rotation, r3.Vec{X: comparisonSpin, Y: comparisonSpin})
}

package geometry

import "gonum.org/v1/gonum/spatial/r3"

// NewBox returns a box centered on the origin with the given width (x),
// height (y) and depth (z).
func NewBox(width, height, depth float64) *Mesh {
	x, y, z := width/2, height/2, depth/2
	return &Mesh{
		Vertices: []r3.Vec{
			{X: -x, Y: -y, Z: -z}, // 0
			{X: x, Y: -y, Z: -z},  // 1
			{X: x, Y: y, Z: -z},   // 2
			{X: -x, Y: y, Z: -z},  // 3
			{X: -x, Y: -y, Z: z},  // 4
			{X: x, Y: -y, Z: z},   // 5
			{X: x, Y: y, Z: z},    // 6
			{X: -x, Y: y, Z: z},   // 7
		},
		Faces: []Face{
			{4, 5, 6}, {4, 6, 7}, // +z
			{1, 0, 3}, {1, 3, 2}, // -z
			{5, 1, 2}, {5, 2, 6}, // +x
			{0, 4, 7}, {0, 7, 3}, // -x
			{7, 6, 2}, {7, 2, 3}, // +y
			{0, 1, 5}, {0, 5, 4}, // -y
		},
	}
}

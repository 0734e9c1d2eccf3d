package scene

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ObjectDescriptor summarizes an object for JSON consumers.
type ObjectDescriptor struct {
	Size        [3]float64 `json:"size"`
	Position    [3]float64 `json:"position"`
	Rotation    [3]float64 `json:"rotation"`
	Scale       float64    `json:"scale"`
	Color       string     `json:"color"`
	VertexCount int        `json:"vertex_count"`
	FaceCount   int        `json:"face_count"`
}

// CameraDescriptor summarizes a camera for JSON consumers.
type CameraDescriptor struct {
	Position [3]float64 `json:"position"`
	FOV      float64    `json:"fov"`
	Aspect   float64    `json:"aspect"`
	Near     float64    `json:"near"`
	Far      float64    `json:"far"`
}

// Descriptor is a serializable snapshot of a scene and its camera.
type Descriptor struct {
	NeoID      string           `json:"neo_id"`
	Layout     Layout           `json:"layout"`
	Reference  ObjectDescriptor `json:"reference"`
	Comparison ObjectDescriptor `json:"comparison"`
	Camera     CameraDescriptor `json:"camera"`
}

// Describe snapshots s and cam. Callers must hold whatever lock guards them.
func Describe(s *Scene, cam *Camera) Descriptor {
	return Descriptor{
		NeoID:      s.ID,
		Layout:     s.Layout,
		Reference:  describeObject(s.Reference),
		Comparison: describeObject(s.Comparison),
		Camera: CameraDescriptor{
			Position: vec(cam.Position),
			FOV:      cam.FOV,
			Aspect:   cam.Aspect,
			Near:     cam.Near,
			Far:      cam.Far,
		},
	}
}

func describeObject(o *Object) ObjectDescriptor {
	return ObjectDescriptor{
		Size:        vec(o.Size()),
		Position:    vec(o.Position),
		Rotation:    vec(o.Rotation),
		Scale:       o.Scale,
		Color:       hexColor(o),
		VertexCount: len(o.Mesh.Vertices),
		FaceCount:   len(o.Mesh.Faces),
	}
}

func hexColor(o *Object) string {
	return fmt.Sprintf("#%02x%02x%02x", o.Color.R, o.Color.G, o.Color.B)
}

func vec(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// LandmarkHeightMeters is the height of the reference landmark.
	LandmarkHeightMeters = 93.0

	// MinComparisonScale floors the hull rescale so tiny objects stay visible.
	MinComparisonScale = 0.1

	// SpacingMargin is added to the half-extents when separating the objects.
	SpacingMargin = 15.0

	// MinCameraDistance keeps small scenes from being clipped.
	MinCameraDistance = 200.0

	// cameraDistancePerRatio is the camera distance per unit of
	// comparison/reference size ratio.
	cameraDistancePerRatio = 80.0 * 2
)

// Layout is the placement arithmetic for one scene.
type Layout struct {
	ScaleFactor     float64 `json:"scale_factor"`
	ReferenceHeight float64 `json:"reference_height"`
	TargetDiameter  float64 `json:"target_diameter"`
	ComparisonScale float64 `json:"comparison_scale"`
	Spacing         float64 `json:"spacing"`
	CameraDistance  float64 `json:"camera_distance"`
}

// ReferenceHeight returns the reference box height for a scale factor.
func ReferenceHeight(scaleFactor float64) float64 {
	return LandmarkHeightMeters / 1000 * scaleFactor
}

// ComputeLayout derives the comparison scale, spacing and camera distance for
// a median diameter in km, a scale factor, and the unscaled size of the
// comparison mesh. A non-finite or negative diameter is treated as zero.
func ComputeLayout(medianKm, scaleFactor float64, meshSize r3.Vec) Layout {
	if math.IsNaN(medianKm) || math.IsInf(medianKm, 0) || medianKm < 0 {
		medianKm = 0
	}

	h := ReferenceHeight(scaleFactor)
	target := medianKm * scaleFactor

	k := math.Min(target/meshSize.X, math.Min(target/meshSize.Y, target/meshSize.Z))
	if math.IsNaN(k) || k < MinComparisonScale {
		k = MinComparisonScale
	}

	cam := MinCameraDistance
	if h > 0 {
		cam = math.Max(MinCameraDistance, cameraDistancePerRatio*target/h)
	}

	return Layout{
		ScaleFactor:     scaleFactor,
		ReferenceHeight: h,
		TargetDiameter:  target,
		ComparisonScale: k,
		Spacing:         (meshSize.X*k+h)/2 + SpacingMargin,
		CameraDistance:  cam,
	}
}

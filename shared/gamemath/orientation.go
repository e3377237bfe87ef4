package gamemath

import (
	"math"

	"github.com/automoto/snackman-client/shared/netconfig"
	"github.com/go-gl/mathgl/mgl64"
)

var upAxis = mgl64.Vec3{0, 1, 0}

// FacingYaw returns the rotation around the up axis for a canonical facing.
func FacingYaw(d netconfig.Direction) float64 {
	switch d {
	case netconfig.DirectionNorth:
		return math.Pi / 2
	case netconfig.DirectionSouth:
		return 3 * math.Pi / 2
	case netconfig.DirectionEast:
		return math.Pi
	case netconfig.DirectionWest:
		return 0
	}
	return 0
}

// FacingRotation returns the orientation quaternion for a canonical facing.
func FacingRotation(d netconfig.Direction) mgl64.Quat {
	return mgl64.QuatRotate(FacingYaw(d), upAxis)
}

// SizeClassScale returns the per-axis scale of a roaming character's model.
// Heavier classes widen more than they grow.
func SizeClassScale(t netconfig.Thickness) mgl64.Vec3 {
	switch t {
	case netconfig.ThicknessThin:
		return mgl64.Vec3{1, 1, 1}
	case netconfig.ThicknessSlightlyThick:
		return mgl64.Vec3{1.25 * 1.2, 1.25, 1.25 * 1.2}
	case netconfig.ThicknessMedium:
		return mgl64.Vec3{1.5 * 1.4, 1.5, 1.5 * 1.4}
	case netconfig.ThicknessHeavy:
		return mgl64.Vec3{1.75 * 1.7, 1.75, 1.75 * 1.7}
	case netconfig.ThicknessVeryHeavy:
		return mgl64.Vec3{2 * 1.9, 2, 2 * 1.9}
	}
	return mgl64.Vec3{1, 1, 1}
}

package gamemath

import "github.com/go-gl/mathgl/mgl64"

// Transform is a world-space position and orientation.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// IdentityTransform returns a transform at the origin with no rotation.
func IdentityTransform() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// SmoothToward moves current a fraction alpha of the way to target.
// alpha is clamped to [0, 1] so the result never passes target.
func SmoothToward(current, target mgl64.Vec3, alpha float64) mgl64.Vec3 {
	alpha = Clamp(alpha, 0, 1)
	return current.Add(target.Sub(current).Mul(alpha))
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

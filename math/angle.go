package math

import "github.com/chewxy/math32"

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math32.Pi / 180
}

func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SphericalDirection returns the unit vector for a yaw/pitch pair given in
// degrees. Yaw is measured from +X towards +Z, pitch from the XZ plane
// towards +Y.
func SphericalDirection(yawDeg, pitchDeg float32) Vec3 {
	yaw, pitch := Radians(yawDeg), Radians(pitchDeg)
	sy, cy := math32.Sincos(yaw)
	sp, cp := math32.Sincos(pitch)
	return Vec3{X: cy * cp, Y: sp, Z: sy * cp}.Normalize()
}

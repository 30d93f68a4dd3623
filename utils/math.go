package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// WrapRadians maps an angle onto the half-open interval (-pi, pi].
func WrapRadians(radians float64) float64 {
	wrapped := math.Mod(radians, 2*math.Pi)
	if wrapped <= -math.Pi {
		wrapped += 2 * math.Pi
	} else if wrapped > math.Pi {
		wrapped -= 2 * math.Pi
	}
	return wrapped
}

// AngleDiffRad returns the signed shortest rotation from a1 to a2 in radians.
func AngleDiffRad(a1, a2 float64) float64 {
	return WrapRadians(a2 - a1)
}

// Float64AlmostEqual compares two float64s within some epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// IsFinite reports whether every value is neither NaN nor infinite.
func IsFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

package spatialmath

import "math"

// Twist2d is a change in pose along an arc since the last pose update, in the robot frame.
// Dtheta is in radians.
type Twist2d struct {
	Dx     float64
	Dy     float64
	Dtheta float64
}

// ApproxEqual compares component-wise within epsilon.
func (t Twist2d) ApproxEqual(other Twist2d, epsilon float64) bool {
	return math.Abs(t.Dx-other.Dx) <= epsilon &&
		math.Abs(t.Dy-other.Dy) <= epsilon &&
		math.Abs(t.Dtheta-other.Dtheta) <= epsilon
}

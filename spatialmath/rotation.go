package spatialmath

import (
	"fmt"
	"math"

	"go.viam.com/swerve/utils"
)

// minRotationMagnitude is the smallest (x, y) vector length that defines a direction.
const minRotationMagnitude = 1e-6

// Rotation2d is an orientation in the plane, counter-clockwise positive. The zero value is the
// zero rotation. Radians are always wrapped to (-pi, pi].
type Rotation2d struct {
	radians     float64
	cos         float64
	sin         float64
	initialized bool
}

// NewRotation2d returns the rotation for an angle in radians.
func NewRotation2d(radians float64) Rotation2d {
	return Rotation2d{
		radians:     utils.WrapRadians(radians),
		cos:         math.Cos(radians),
		sin:         math.Sin(radians),
		initialized: true,
	}
}

// NewRotation2dFromDegrees returns the rotation for an angle in degrees.
func NewRotation2dFromDegrees(degrees float64) Rotation2d {
	return NewRotation2d(utils.DegToRad(degrees))
}

// NewRotation2dFromXY returns the direction of the vector (x, y), which does not need to be
// normalized. Vectors shorter than 1e-6 have no direction and yield the zero rotation.
func NewRotation2dFromXY(x, y float64) Rotation2d {
	magnitude := math.Hypot(x, y)
	if magnitude <= minRotationMagnitude {
		return NewRotation2d(0)
	}
	cos, sin := x/magnitude, y/magnitude
	return Rotation2d{
		// atan2(-0, x<0) is -pi, which lies outside (-pi, pi].
		radians:     utils.WrapRadians(math.Atan2(sin, cos)),
		cos:         cos,
		sin:         sin,
		initialized: true,
	}
}

func (r Rotation2d) norm() Rotation2d {
	if !r.initialized {
		return Rotation2d{cos: 1, initialized: true}
	}
	return r
}

// Radians returns the angle in (-pi, pi].
func (r Rotation2d) Radians() float64 { return r.norm().radians }

// Degrees returns the angle in (-180, 180].
func (r Rotation2d) Degrees() float64 { return utils.RadToDeg(r.norm().radians) }

// Cos returns the cosine of the angle.
func (r Rotation2d) Cos() float64 { return r.norm().cos }

// Sin returns the sine of the angle.
func (r Rotation2d) Sin() float64 { return r.norm().sin }

// Tan returns the tangent of the angle.
func (r Rotation2d) Tan() float64 {
	n := r.norm()
	return n.sin / n.cos
}

// Add composes two rotations; the result is bounded to (-pi, pi].
func (r Rotation2d) Add(other Rotation2d) Rotation2d {
	a, b := r.norm(), other.norm()
	return NewRotation2dFromXY(a.cos*b.cos-a.sin*b.sin, a.cos*b.sin+a.sin*b.cos)
}

// Sub returns r - other.
func (r Rotation2d) Sub(other Rotation2d) Rotation2d {
	return r.Add(other.Neg())
}

// Neg returns the inverse rotation.
func (r Rotation2d) Neg() Rotation2d {
	return NewRotation2d(-r.norm().radians)
}

// Mul scales the angle.
func (r Rotation2d) Mul(scalar float64) Rotation2d {
	return NewRotation2d(r.norm().radians * scalar)
}

// IsFinite reports whether the angle is finite.
func (r Rotation2d) IsFinite() bool {
	return utils.IsFinite(r.norm().radians)
}

// ApproxEqual reports whether the two rotations point the same way within epsilon radians.
// Angles on either side of the pi boundary compare equal.
func (r Rotation2d) ApproxEqual(other Rotation2d, epsilon float64) bool {
	return utils.Float64AlmostEqual(r.Sub(other).Radians(), 0, epsilon)
}

func (r Rotation2d) String() string {
	return fmt.Sprintf("Rotation2d(%.3f deg)", r.Degrees())
}

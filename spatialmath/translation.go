package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r2"

	"go.viam.com/swerve/utils"
)

// Translation2d is a point or vector in the plane, in meters.
//
// Axes follow the chassis convention: with the robot at the origin facing +X,
// driving forward increases X and driving left increases Y.
type Translation2d struct {
	p r2.Point
}

// NewTranslation2d returns the translation (x, y).
func NewTranslation2d(x, y float64) Translation2d {
	return Translation2d{r2.Point{X: x, Y: y}}
}

// NewTranslation2dPolar returns the translation with the given length along the given direction.
func NewTranslation2dPolar(distance float64, angle Rotation2d) Translation2d {
	return NewTranslation2d(distance*angle.Cos(), distance*angle.Sin())
}

// X returns the x component.
func (t Translation2d) X() float64 { return t.p.X }

// Y returns the y component.
func (t Translation2d) Y() float64 { return t.p.Y }

// Point returns the underlying r2 point.
func (t Translation2d) Point() r2.Point { return t.p }

// Norm returns the distance from the origin.
func (t Translation2d) Norm() float64 {
	return t.p.Norm()
}

// Distance returns the distance between two translations.
func (t Translation2d) Distance(other Translation2d) float64 {
	return t.p.Sub(other.p).Norm()
}

// Angle returns the direction of the vector from the origin. The zero vector has zero angle.
func (t Translation2d) Angle() Rotation2d {
	return NewRotation2dFromXY(t.p.X, t.p.Y)
}

// Add returns t + other.
func (t Translation2d) Add(other Translation2d) Translation2d {
	return Translation2d{t.p.Add(other.p)}
}

// Sub returns t - other.
func (t Translation2d) Sub(other Translation2d) Translation2d {
	return Translation2d{t.p.Sub(other.p)}
}

// Neg returns the inverse of the translation.
func (t Translation2d) Neg() Translation2d {
	return Translation2d{t.p.Mul(-1)}
}

// Mul scales the translation.
func (t Translation2d) Mul(scalar float64) Translation2d {
	return Translation2d{t.p.Mul(scalar)}
}

// Div divides the translation by a scalar.
func (t Translation2d) Div(scalar float64) Translation2d {
	return Translation2d{t.p.Mul(1 / scalar)}
}

// RotateBy applies a counter-clockwise rotation about the origin:
//
//	[x_new]   [cos, -sin][x]
//	[y_new] = [sin,  cos][y]
//
// Rotating (2, 0) by 90 degrees gives (0, 2).
func (t Translation2d) RotateBy(r Rotation2d) Translation2d {
	cos, sin := r.Cos(), r.Sin()
	return NewTranslation2d(
		t.p.X*cos-t.p.Y*sin,
		t.p.X*sin+t.p.Y*cos,
	)
}

// IsFinite reports whether both components are finite.
func (t Translation2d) IsFinite() bool {
	return utils.IsFinite(t.p.X, t.p.Y)
}

// ApproxEqual compares component-wise within epsilon.
func (t Translation2d) ApproxEqual(other Translation2d, epsilon float64) bool {
	return utils.Float64AlmostEqual(t.p.X, other.p.X, epsilon) && utils.Float64AlmostEqual(t.p.Y, other.p.Y, epsilon)
}

func (t Translation2d) String() string {
	return fmt.Sprintf("Translation2d(X: %.3f, Y: %.3f)", t.p.X, t.p.Y)
}

package spatialmath

import (
	"fmt"
	"math"
)

// smallAngle is the threshold below which the pose exponential and logarithm use Taylor
// expansions instead of dividing by the angle.
const smallAngle = 1e-9

// Pose2d is a position and heading in the plane. The zero value is the origin facing +X.
type Pose2d struct {
	translation Translation2d
	rotation    Rotation2d
}

// NewPose2d returns a pose from a translation and rotation.
func NewPose2d(translation Translation2d, rotation Rotation2d) Pose2d {
	return Pose2d{translation: translation, rotation: rotation}
}

// NewPose2dFromXY returns a pose at (x, y) with the given heading.
func NewPose2dFromXY(x, y float64, rotation Rotation2d) Pose2d {
	return NewPose2d(NewTranslation2d(x, y), rotation)
}

// Translation returns the position of the pose.
func (p Pose2d) Translation() Translation2d { return p.translation }

// Rotation returns the heading of the pose.
func (p Pose2d) Rotation() Rotation2d { return p.rotation }

// X returns the x position.
func (p Pose2d) X() float64 { return p.translation.X() }

// Y returns the y position.
func (p Pose2d) Y() float64 { return p.translation.Y() }

// Plus applies a transform expressed in the pose's own frame:
//
//	[x_new]   [cos, -sin, 0][transform.x]
//	[y_new] = [sin,  cos, 0][transform.y]
//	[t_new]   [0,    0,   1][transform.t]
func (p Pose2d) Plus(transform Transform2d) Pose2d {
	return Pose2d{
		translation: p.translation.Add(transform.translation.RotateBy(p.rotation)),
		rotation:    p.rotation.Add(transform.rotation),
	}
}

// Minus returns the transform that maps other onto p, expressed in other's frame.
func (p Pose2d) Minus(other Pose2d) Transform2d {
	return Transform2d{
		translation: p.translation.Sub(other.translation).RotateBy(other.rotation.Neg()),
		rotation:    p.rotation.Sub(other.rotation),
	}
}

// RelativeTo returns p expressed in the frame of the origin pose.
func (p Pose2d) RelativeTo(origin Pose2d) Pose2d {
	transform := p.Minus(origin)
	return Pose2d{translation: transform.translation, rotation: transform.rotation}
}

// Exp moves the pose along a constant-curvature arc described by a twist in the robot frame.
// If a non-holonomic robot drives forward 0.01m while turning 0.5 degrees, the twist is
// Twist2d{Dx: 0.01, Dtheta: utils.DegToRad(0.5)}.
func (p Pose2d) Exp(twist Twist2d) Pose2d {
	sinTheta := math.Sin(twist.Dtheta)
	cosTheta := math.Cos(twist.Dtheta)

	var s, c float64
	if math.Abs(twist.Dtheta) < smallAngle {
		s = 1.0 - twist.Dtheta*twist.Dtheta/6
		c = 0.5 * twist.Dtheta
	} else {
		s = sinTheta / twist.Dtheta
		c = (1 - cosTheta) / twist.Dtheta
	}

	transform := NewTransform2d(
		NewTranslation2d(twist.Dx*s-twist.Dy*c, twist.Dx*c+twist.Dy*s),
		NewRotation2dFromXY(cosTheta, sinTheta),
	)
	return p.Plus(transform)
}

// Log returns the twist that maps p onto end, so that p.Exp(p.Log(end)) == end.
func (p Pose2d) Log(end Pose2d) Twist2d {
	transform := end.Minus(p)
	dtheta := transform.rotation.Radians()
	halfDtheta := 0.5 * dtheta

	cosMinusOne := transform.rotation.Cos() - 1

	var halfThetaByTanOfHalfDtheta float64
	if math.Abs(cosMinusOne) < smallAngle {
		halfThetaByTanOfHalfDtheta = 1 - dtheta*dtheta/12
	} else {
		halfThetaByTanOfHalfDtheta = -(halfDtheta * transform.rotation.Sin()) / cosMinusOne
	}

	translationPart := transform.translation.
		RotateBy(NewRotation2dFromXY(halfThetaByTanOfHalfDtheta, -halfDtheta)).
		Mul(math.Hypot(halfThetaByTanOfHalfDtheta, halfDtheta))

	return Twist2d{Dx: translationPart.X(), Dy: translationPart.Y(), Dtheta: dtheta}
}

// IsFinite reports whether every component of the pose is finite.
func (p Pose2d) IsFinite() bool {
	return p.translation.IsFinite() && p.rotation.IsFinite()
}

// ApproxEqual compares positions within linearEps meters and headings within angularEps radians.
func (p Pose2d) ApproxEqual(other Pose2d, linearEps, angularEps float64) bool {
	return p.translation.ApproxEqual(other.translation, linearEps) &&
		p.rotation.ApproxEqual(other.rotation, angularEps)
}

func (p Pose2d) String() string {
	return fmt.Sprintf("Pose2d(X: %.3f, Y: %.3f, Theta: %.3f deg)", p.X(), p.Y(), p.rotation.Degrees())
}

// Transform2d is a change of pose expressed in the starting pose's frame.
type Transform2d struct {
	translation Translation2d
	rotation    Rotation2d
}

// NewTransform2d returns a transform from a translation and rotation.
func NewTransform2d(translation Translation2d, rotation Rotation2d) Transform2d {
	return Transform2d{translation: translation, rotation: rotation}
}

// Translation returns the translation part of the transform.
func (t Transform2d) Translation() Translation2d { return t.translation }

// Rotation returns the rotation part of the transform.
func (t Transform2d) Rotation() Rotation2d { return t.rotation }

// Mul scales both parts of the transform.
func (t Transform2d) Mul(scalar float64) Transform2d {
	return Transform2d{translation: t.translation.Mul(scalar), rotation: t.rotation.Mul(scalar)}
}

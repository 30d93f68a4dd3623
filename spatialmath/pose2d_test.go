package spatialmath

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestPosePlusTransform(t *testing.T) {
	initial := NewPose2dFromXY(1, 2, NewRotation2dFromDegrees(45))
	transform := NewTransform2d(NewTranslation2d(5, 0), NewRotation2dFromDegrees(5))

	transformed := initial.Plus(transform)
	test.That(t, transformed.X(), test.ShouldAlmostEqual, 1+5/math.Sqrt2)
	test.That(t, transformed.Y(), test.ShouldAlmostEqual, 2+5/math.Sqrt2)
	test.That(t, transformed.Rotation().Degrees(), test.ShouldAlmostEqual, 50)
}

func TestPoseRelativeTo(t *testing.T) {
	initial := NewPose2dFromXY(0, 0, NewRotation2dFromDegrees(45))
	last := NewPose2dFromXY(5, 5, NewRotation2dFromDegrees(45))

	final := last.RelativeTo(initial)
	test.That(t, final.X(), test.ShouldAlmostEqual, 5*math.Sqrt2)
	test.That(t, final.Y(), test.ShouldAlmostEqual, 0)
	test.That(t, final.Rotation().Degrees(), test.ShouldAlmostEqual, 0)
}

func TestPoseMinus(t *testing.T) {
	initial := NewPose2dFromXY(0, 0, NewRotation2dFromDegrees(45))
	last := NewPose2dFromXY(5, 5, NewRotation2dFromDegrees(45))

	transform := last.Minus(initial)
	test.That(t, transform.Translation().X(), test.ShouldAlmostEqual, 5*math.Sqrt2)
	test.That(t, transform.Translation().Y(), test.ShouldAlmostEqual, 0)
	test.That(t, transform.Rotation().Degrees(), test.ShouldAlmostEqual, 0)

	test.That(t, initial.Plus(transform).ApproxEqual(last, 1e-9, 1e-9), test.ShouldBeTrue)

	scaled := transform.Mul(2)
	test.That(t, scaled.Translation().X(), test.ShouldAlmostEqual, 10*math.Sqrt2)
}

func TestTwistStraight(t *testing.T) {
	pose := Pose2d{}.Exp(Twist2d{Dx: 5})
	test.That(t, pose.X(), test.ShouldAlmostEqual, 5)
	test.That(t, pose.Y(), test.ShouldAlmostEqual, 0)
	test.That(t, pose.Rotation().Radians(), test.ShouldAlmostEqual, 0)
}

func TestTwistQuarterCircle(t *testing.T) {
	pose := Pose2d{}.Exp(Twist2d{Dx: 5.0 / 2 * math.Pi, Dtheta: math.Pi / 2})
	test.That(t, pose.X(), test.ShouldAlmostEqual, 5)
	test.That(t, pose.Y(), test.ShouldAlmostEqual, 5)
	test.That(t, pose.Rotation().Degrees(), test.ShouldAlmostEqual, 90)
}

func TestTwistDiagonalNoDtheta(t *testing.T) {
	pose := Pose2d{}.Exp(Twist2d{Dx: 2, Dy: 2})
	test.That(t, pose.X(), test.ShouldAlmostEqual, 2)
	test.That(t, pose.Y(), test.ShouldAlmostEqual, 2)
	test.That(t, pose.Rotation().Degrees(), test.ShouldAlmostEqual, 0)
}

func TestTwistEquality(t *testing.T) {
	test.That(t, Twist2d{5, 1, 3}.ApproxEqual(Twist2d{5.0, 1.0, 3.0}, 1e-12), test.ShouldBeTrue)
	test.That(t, Twist2d{5, 1, 3}.ApproxEqual(Twist2d{5.0, 1.2, 3.0}, 1e-3), test.ShouldBeFalse)
}

func TestPoseLog(t *testing.T) {
	end := NewPose2dFromXY(5, 5, NewRotation2dFromDegrees(90))
	twist := Pose2d{}.Log(end)

	test.That(t, twist.Dx, test.ShouldAlmostEqual, 5.0/2*math.Pi)
	test.That(t, twist.Dy, test.ShouldAlmostEqual, 0)
	test.That(t, twist.Dtheta, test.ShouldAlmostEqual, math.Pi/2)
}

func TestPoseExpLogRoundTrip(t *testing.T) {
	start := NewPose2dFromXY(-1, 4, NewRotation2dFromDegrees(-30))
	for _, end := range []Pose2d{
		NewPose2dFromXY(2, 3, NewRotation2dFromDegrees(10)),
		NewPose2dFromXY(-1, 4.5, NewRotation2dFromDegrees(-30)),
		NewPose2dFromXY(0, 0, NewRotation2dFromDegrees(170)),
	} {
		test.That(t, start.Exp(start.Log(end)).ApproxEqual(end, 1e-9, 1e-9), test.ShouldBeTrue)
	}
}

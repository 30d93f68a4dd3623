package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestDegRadConversions(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, DegToRad(-45), test.ShouldAlmostEqual, -math.Pi/4)
	test.That(t, RadToDeg(math.Pi/3), test.ShouldAlmostEqual, 60)
	test.That(t, RadToDeg(DegToRad(123.4)), test.ShouldAlmostEqual, 123.4)
}

func TestWrapRadians(t *testing.T) {
	for _, tc := range []struct {
		in, out float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{math.Pi / 2, math.Pi / 2},
		{-math.Pi / 2, -math.Pi / 2},
		{2 * math.Pi, 0},
		{DegToRad(270), DegToRad(-90)},
		{DegToRad(-190), DegToRad(170)},
		{DegToRad(725), DegToRad(5)},
	} {
		test.That(t, WrapRadians(tc.in), test.ShouldAlmostEqual, tc.out)
	}
}

func TestAngleDiffRad(t *testing.T) {
	test.That(t, AngleDiffRad(DegToRad(170), DegToRad(-170)), test.ShouldAlmostEqual, DegToRad(20))
	test.That(t, AngleDiffRad(DegToRad(-170), DegToRad(170)), test.ShouldAlmostEqual, DegToRad(-20))
	test.That(t, AngleDiffRad(0, DegToRad(90)), test.ShouldAlmostEqual, DegToRad(90))
}

func TestIsFinite(t *testing.T) {
	test.That(t, IsFinite(), test.ShouldBeTrue)
	test.That(t, IsFinite(1, -2, 0), test.ShouldBeTrue)
	test.That(t, IsFinite(1, math.NaN()), test.ShouldBeFalse)
	test.That(t, IsFinite(math.Inf(-1)), test.ShouldBeFalse)
}

func TestFloat64AlmostEqual(t *testing.T) {
	test.That(t, Float64AlmostEqual(1, 1.0001, 1e-3), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.01, 1e-3), test.ShouldBeFalse)
}

package kinematics

import (
	"fmt"
	"math"

	"go.viam.com/swerve/spatialmath"
	"go.viam.com/swerve/utils"
)

// SwerveModuleState is the speed and steering angle of one module. Speed may be negative to
// drive in reverse. Angle is always within (-180, 180] degrees.
type SwerveModuleState struct {
	Speed float64
	Angle spatialmath.Rotation2d
}

// NewSwerveModuleStateDegrees is a convenience constructor taking the angle in degrees.
func NewSwerveModuleStateDegrees(speed, degrees float64) SwerveModuleState {
	return SwerveModuleState{Speed: speed, Angle: spatialmath.NewRotation2dFromDegrees(degrees)}
}

// Velocity returns the module's velocity vector in the robot frame.
func (s SwerveModuleState) Velocity() (float64, float64) {
	return s.Speed * s.Angle.Cos(), s.Speed * s.Angle.Sin()
}

// ApproxEqual compares speed within speedEps and angle within angleEps radians.
func (s SwerveModuleState) ApproxEqual(other SwerveModuleState, speedEps, angleEps float64) bool {
	return math.Abs(s.Speed-other.Speed) <= speedEps && s.Angle.ApproxEqual(other.Angle, angleEps)
}

func (s SwerveModuleState) String() string {
	return fmt.Sprintf("SwerveModuleState(Speed: %.3f m/s, Angle: %.2f deg)", s.Speed, s.Angle.Degrees())
}

// NormalizeWheelSpeeds scales every module speed by the same factor so that the fastest module
// runs at attainableMaxSpeed, keeping the ratios between modules and therefore the direction of
// travel. States already within the limit are returned unchanged. The input is not modified.
// attainableMaxSpeed must be finite and positive.
func NormalizeWheelSpeeds(states []SwerveModuleState, attainableMaxSpeed float64) ([]SwerveModuleState, error) {
	if err := validateMaxSpeed(attainableMaxSpeed); err != nil {
		return nil, err
	}
	out := make([]SwerveModuleState, len(states))
	copy(out, states)

	realMaxSpeed := 0.0
	for i, s := range states {
		if !utils.IsFinite(s.Speed) {
			return nil, newNonFiniteError(fmt.Sprintf("module %d speed", i), s.Speed)
		}
		realMaxSpeed = math.Max(realMaxSpeed, math.Abs(s.Speed))
	}
	if realMaxSpeed <= attainableMaxSpeed {
		return out, nil
	}

	factor := attainableMaxSpeed / realMaxSpeed
	for i := range out {
		out[i].Speed *= factor
	}
	return out, nil
}

func validateMaxSpeed(maxSpeed float64) error {
	if !utils.IsFinite(maxSpeed) {
		return newNonFiniteError("max speed", maxSpeed)
	}
	if maxSpeed <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("max module speed must be positive, got %v", maxSpeed)}
	}
	return nil
}

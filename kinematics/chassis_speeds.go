package kinematics

import (
	"fmt"

	"go.viam.com/swerve/spatialmath"
	"go.viam.com/swerve/utils"
)

// ChassisSpeeds is a velocity of the robot in its own frame. Vx is forward and Vy is left in
// meters per second; Omega is counter-clockwise in radians per second.
//
// Unlike a Twist2d, which is a change in pose, ChassisSpeeds is a rate.
type ChassisSpeeds struct {
	Vx    float64
	Vy    float64
	Omega float64
}

// FromFieldRelativeSpeeds converts field-relative speeds into the robot frame. Field +X points
// away from the driver station wall, +Y to the left, and robotAngle is the gyro heading
// (counter-clockwise positive, zero when facing +X).
func FromFieldRelativeSpeeds(vx, vy, omega float64, robotAngle spatialmath.Rotation2d) ChassisSpeeds {
	cos, sin := robotAngle.Cos(), robotAngle.Sin()
	return ChassisSpeeds{
		Vx:    vx*cos + vy*sin,
		Vy:    -vx*sin + vy*cos,
		Omega: omega,
	}
}

// Twist returns the robot-frame displacement after moving at these speeds for dt seconds.
func (s ChassisSpeeds) Twist(dt float64) spatialmath.Twist2d {
	return spatialmath.Twist2d{Dx: s.Vx * dt, Dy: s.Vy * dt, Dtheta: s.Omega * dt}
}

func (s ChassisSpeeds) validate() error {
	switch {
	case !utils.IsFinite(s.Vx):
		return newNonFiniteError("vx", s.Vx)
	case !utils.IsFinite(s.Vy):
		return newNonFiniteError("vy", s.Vy)
	case !utils.IsFinite(s.Omega):
		return newNonFiniteError("omega", s.Omega)
	}
	return nil
}

func (s ChassisSpeeds) String() string {
	return fmt.Sprintf("ChassisSpeeds(Vx: %.3f m/s, Vy: %.3f m/s, Omega: %.3f rad/s)", s.Vx, s.Vy, s.Omega)
}

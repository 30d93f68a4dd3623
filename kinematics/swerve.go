// Package kinematics converts between chassis velocities and swerve module states.
//
// Inverse kinematics (chassis speeds to module states) uses the module positions relative to a
// center of rotation, which defaults to the robot center. Forward kinematics (module states to
// chassis speeds) is overdetermined for more than one module, so it is solved in the
// least-squares sense with the Moore-Penrose pseudo-inverse of the module geometry:
//
//	[module velocities] = A * [vx vy omega]
//	[vx vy omega]       = pinv(A) * [module velocities]
//
// where each module at (x, y) contributes the rows [1 0 -y] and [0 1 x] to A.
package kinematics

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/swerve/spatialmath"
	"go.viam.com/swerve/utils"
)

const (
	minModules = 2
	// below this module velocity the steering angle is undefined.
	zeroVelocityEpsilon = 1e-6
	// relative singular value cutoff for the pseudo-inverse, matching numpy's default.
	pinvRcond = 1e-15
)

// SwerveDriveKinematics holds a fixed module geometry. It is immutable after construction and
// safe for concurrent use.
type SwerveDriveKinematics struct {
	modules        []spatialmath.Translation2d
	zeroSpeedAngle []spatialmath.Rotation2d
	forward        *mat.Dense // 3 x 2N pseudo-inverse of the geometry
}

// Option configures a SwerveDriveKinematics.
type Option func(*SwerveDriveKinematics) error

// WithZeroSpeedAngles sets the steering angle reported for each module when its commanded
// velocity is zero. The default is the zero rotation for every module.
func WithZeroSpeedAngles(angles ...spatialmath.Rotation2d) Option {
	return func(k *SwerveDriveKinematics) error {
		if len(angles) != len(k.modules) {
			return NewModuleCountMismatchError(len(k.modules), len(angles))
		}
		for i, a := range angles {
			if !a.IsFinite() {
				return newNonFiniteError(fmt.Sprintf("zero speed angle %d", i), a.Radians())
			}
		}
		k.zeroSpeedAngle = append([]spatialmath.Rotation2d(nil), angles...)
		return nil
	}
}

// NewSwerveDriveKinematics builds the kinematics for modules at the given positions relative
// to the robot center. States are produced and consumed in the same order as modules.
func NewSwerveDriveKinematics(modules []spatialmath.Translation2d, opts ...Option) (*SwerveDriveKinematics, error) {
	if len(modules) < minModules {
		return nil, NewTooFewModulesError(len(modules))
	}
	for i, m := range modules {
		if !m.IsFinite() {
			return nil, newNonFiniteError(fmt.Sprintf("module %d position", i), nonFiniteComponent(m))
		}
	}

	k := &SwerveDriveKinematics{
		modules:        append([]spatialmath.Translation2d(nil), modules...),
		zeroSpeedAngle: make([]spatialmath.Rotation2d, len(modules)),
	}
	for _, opt := range opts {
		if err := opt(k); err != nil {
			return nil, err
		}
	}

	forward, err := pseudoInverse(inverseKinematicsMatrix(k.modules))
	if err != nil {
		return nil, err
	}
	k.forward = forward
	return k, nil
}

func nonFiniteComponent(t spatialmath.Translation2d) float64 {
	if !utils.IsFinite(t.X()) {
		return t.X()
	}
	return t.Y()
}

// inverseKinematicsMatrix builds the 2N x 3 matrix mapping [vx vy omega] to stacked module
// velocities.
func inverseKinematicsMatrix(modules []spatialmath.Translation2d) *mat.Dense {
	a := mat.NewDense(2*len(modules), 3, nil)
	for i, m := range modules {
		a.SetRow(2*i, []float64{1, 0, -m.Y()})
		a.SetRow(2*i+1, []float64{0, 1, m.X()})
	}
	return a
}

// pseudoInverse computes the Moore-Penrose pseudo-inverse of a through its SVD.
func pseudoInverse(a mat.Matrix) (*mat.Dense, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.New("failed to factorize module geometry")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	// Values are sorted in decreasing order.
	cutoff := pinvRcond * values[0]
	sInv := mat.NewDiagDense(len(values), nil)
	for i, s := range values {
		if s > cutoff {
			sInv.SetDiag(i, 1/s)
		}
	}

	var vs, pinv mat.Dense
	vs.Mul(&v, sInv)
	pinv.Mul(&vs, u.T())
	return &pinv, nil
}

// NumModules returns the number of configured modules.
func (k *SwerveDriveKinematics) NumModules() int {
	return len(k.modules)
}

// Modules returns a copy of the configured module positions.
func (k *SwerveDriveKinematics) Modules() []spatialmath.Translation2d {
	return append([]spatialmath.Translation2d(nil), k.modules...)
}

// ToSwerveModuleStates returns the module states that produce the given chassis speeds,
// rotating about the robot center. The states are not normalized; a module may be asked to
// exceed its attainable speed. See ToSwerveModuleStatesLimited.
func (k *SwerveDriveKinematics) ToSwerveModuleStates(speeds ChassisSpeeds) ([]SwerveModuleState, error) {
	return k.ToSwerveModuleStatesAround(speeds, spatialmath.Translation2d{})
}

// ToSwerveModuleStatesAround is ToSwerveModuleStates with a variable center of rotation. With
// the center at one corner and only an omega component, the robot pivots about that corner.
func (k *SwerveDriveKinematics) ToSwerveModuleStatesAround(
	speeds ChassisSpeeds,
	centerOfRotation spatialmath.Translation2d,
) ([]SwerveModuleState, error) {
	if err := speeds.validate(); err != nil {
		return nil, err
	}
	if !centerOfRotation.IsFinite() {
		return nil, newNonFiniteError("center of rotation", nonFiniteComponent(centerOfRotation))
	}

	states := make([]SwerveModuleState, len(k.modules))
	for i, m := range k.modules {
		r := m.Sub(centerOfRotation)
		vx := speeds.Vx - speeds.Omega*r.Y()
		vy := speeds.Vy + speeds.Omega*r.X()

		speed := math.Hypot(vx, vy)
		if speed < zeroVelocityEpsilon {
			states[i] = SwerveModuleState{Speed: 0, Angle: k.zeroSpeedAngle[i]}
			continue
		}
		states[i] = SwerveModuleState{Speed: speed, Angle: spatialmath.NewRotation2dFromXY(vx, vy)}
	}
	return states, nil
}

// ToSwerveModuleStatesLimited returns the module states for the given chassis speeds, scaled
// uniformly so that no module exceeds maxSpeed.
func (k *SwerveDriveKinematics) ToSwerveModuleStatesLimited(
	speeds ChassisSpeeds,
	maxSpeed float64,
) ([]SwerveModuleState, error) {
	return k.ToSwerveModuleStatesAroundLimited(speeds, spatialmath.Translation2d{}, maxSpeed)
}

// ToSwerveModuleStatesAroundLimited is ToSwerveModuleStatesLimited with a variable center of
// rotation.
func (k *SwerveDriveKinematics) ToSwerveModuleStatesAroundLimited(
	speeds ChassisSpeeds,
	centerOfRotation spatialmath.Translation2d,
	maxSpeed float64,
) ([]SwerveModuleState, error) {
	if err := validateMaxSpeed(maxSpeed); err != nil {
		return nil, err
	}
	states, err := k.ToSwerveModuleStatesAround(speeds, centerOfRotation)
	if err != nil {
		return nil, err
	}
	return NormalizeWheelSpeeds(states, maxSpeed)
}

// ToChassisSpeeds returns the chassis speeds that best fit the measured module states, in the
// least-squares sense. States must be given in the order the modules were configured.
func (k *SwerveDriveKinematics) ToChassisSpeeds(states ...SwerveModuleState) (ChassisSpeeds, error) {
	if len(states) != len(k.modules) {
		return ChassisSpeeds{}, NewModuleCountMismatchError(len(k.modules), len(states))
	}

	velocities := mat.NewVecDense(2*len(states), nil)
	for i, s := range states {
		if !utils.IsFinite(s.Speed) {
			return ChassisSpeeds{}, newNonFiniteError(fmt.Sprintf("module %d speed", i), s.Speed)
		}
		if !s.Angle.IsFinite() {
			return ChassisSpeeds{}, newNonFiniteError(fmt.Sprintf("module %d angle", i), s.Angle.Radians())
		}
		vx, vy := s.Velocity()
		velocities.SetVec(2*i, vx)
		velocities.SetVec(2*i+1, vy)
	}

	var chassis mat.VecDense
	chassis.MulVec(k.forward, velocities)
	return ChassisSpeeds{Vx: chassis.AtVec(0), Vy: chassis.AtVec(1), Omega: chassis.AtVec(2)}, nil
}

// Package odometry tracks a swerve robot's pose on the field by integrating module states,
// trusting the wheels for translation and the gyro for heading.
package odometry

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"go.viam.com/swerve/kinematics"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/spatialmath"
	"go.viam.com/swerve/utils"
)

const (
	// DefaultPeriod is the control loop period assumed by Update.
	DefaultPeriod = 20 * time.Millisecond
	// gyro changes larger than this within one update are logged.
	gyroJumpWarnRad = math.Pi / 2
)

// Integration selects how a robot-frame displacement is applied to the field pose.
type Integration int

const (
	// Euler rotates the displacement by the heading at the start of the step.
	Euler Integration = iota
	// Exponential moves along a constant-curvature arc using the pose exponential.
	Exponential
)

func (i Integration) String() string {
	switch i {
	case Euler:
		return "euler"
	case Exponential:
		return "exponential"
	}
	return fmt.Sprintf("Integration(%d)", int(i))
}

// ParseIntegration parses "euler" or "exponential". The empty string is Euler.
func ParseIntegration(s string) (Integration, error) {
	switch s {
	case "", "euler":
		return Euler, nil
	case "exponential":
		return Exponential, nil
	}
	return Euler, errors.Errorf("unknown integration method %q", s)
}

// SwerveDriveOdometry estimates the robot pose from module states and a gyro.
//
// Update, UpdateWithTime, UpdateNow and ResetPosition are serialized internally, but the
// estimate only makes sense when fed from a single periodic control loop.
type SwerveDriveOdometry struct {
	mu sync.Mutex

	kinematics  *kinematics.SwerveDriveKinematics
	logger      logging.Logger
	clock       clock.Clock
	period      time.Duration
	integration Integration

	pose          spatialmath.Pose2d
	previousAngle spatialmath.Rotation2d
	previousGyro  spatialmath.Rotation2d
	gyroOffset    spatialmath.Rotation2d

	previousTime    float64
	hasPreviousTime bool
	previousNow     time.Time
}

type options struct {
	initialPose spatialmath.Pose2d
	period      time.Duration
	integration Integration
	logger      logging.Logger
	clock       clock.Clock
}

// Option configures a SwerveDriveOdometry.
type Option func(*options)

// WithInitialPose starts the estimate at pose instead of the origin.
func WithInitialPose(pose spatialmath.Pose2d) Option {
	return func(o *options) { o.initialPose = pose }
}

// WithPeriod sets the step length used by Update.
func WithPeriod(period time.Duration) Option {
	return func(o *options) { o.period = period }
}

// WithIntegration selects the integration method. The default is Euler.
func WithIntegration(integration Integration) Option {
	return func(o *options) { o.integration = integration }
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock sets the time source used by UpdateNow.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// New returns an odometry estimate starting at the origin, or at WithInitialPose, with the
// gyro currently reading gyroAngle. The gyro does not need to be zeroed; its offset from the
// pose heading is remembered.
func New(k *kinematics.SwerveDriveKinematics, gyroAngle spatialmath.Rotation2d, opts ...Option) (*SwerveDriveOdometry, error) {
	if k == nil {
		return nil, errors.New("odometry requires kinematics")
	}
	o := options{
		period:      DefaultPeriod,
		integration: Euler,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.period <= 0 {
		return nil, errors.Errorf("odometry period must be positive, got %v", o.period)
	}
	if o.integration != Euler && o.integration != Exponential {
		return nil, errors.Errorf("unknown integration method %v", o.integration)
	}
	if err := validatePose(o.initialPose, gyroAngle); err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = logging.NewBlankLogger("odometry")
	}
	if o.clock == nil {
		o.clock = clock.New()
	}

	odo := &SwerveDriveOdometry{
		kinematics:  k,
		logger:      o.logger,
		clock:       o.clock,
		period:      o.period,
		integration: o.integration,
	}
	odo.reset(o.initialPose, gyroAngle)
	return odo, nil
}

func validatePose(pose spatialmath.Pose2d, gyroAngle spatialmath.Rotation2d) error {
	if !pose.IsFinite() {
		return &kinematics.NumericDomainError{Field: "pose", Value: math.NaN()}
	}
	if !gyroAngle.IsFinite() {
		return &kinematics.NumericDomainError{Field: "gyro angle", Value: gyroAngle.Radians()}
	}
	return nil
}

func (odo *SwerveDriveOdometry) reset(pose spatialmath.Pose2d, gyroAngle spatialmath.Rotation2d) {
	odo.pose = pose
	odo.previousAngle = pose.Rotation()
	odo.previousGyro = gyroAngle
	odo.gyroOffset = pose.Rotation().Sub(gyroAngle)
	odo.hasPreviousTime = false
	odo.previousNow = time.Time{}
}

// ResetPosition re-anchors the estimate to a known pose, e.g. at match start or after a
// vision fix. The gyro does not need to be reset; gyroAngle is its current reading.
func (odo *SwerveDriveOdometry) ResetPosition(pose spatialmath.Pose2d, gyroAngle spatialmath.Rotation2d) error {
	if err := validatePose(pose, gyroAngle); err != nil {
		return err
	}
	odo.mu.Lock()
	defer odo.mu.Unlock()
	odo.reset(pose, gyroAngle)
	odo.logger.Debugw("odometry reset", "pose", pose.String(), "gyro_deg", gyroAngle.Degrees())
	return nil
}

// Pose returns the current estimate.
func (odo *SwerveDriveOdometry) Pose() spatialmath.Pose2d {
	odo.mu.Lock()
	defer odo.mu.Unlock()
	return odo.pose
}

// Period returns the step length used by Update.
func (odo *SwerveDriveOdometry) Period() time.Duration {
	return odo.period
}

// Integration returns the integration method in use.
func (odo *SwerveDriveOdometry) Integration() Integration {
	return odo.integration
}

// Update advances the estimate by one control period using the measured module states, given
// in the order the modules were configured, and the current gyro reading.
func (odo *SwerveDriveOdometry) Update(
	gyroAngle spatialmath.Rotation2d,
	states ...kinematics.SwerveModuleState,
) (spatialmath.Pose2d, error) {
	odo.mu.Lock()
	defer odo.mu.Unlock()
	return odo.integrate(odo.period.Seconds(), gyroAngle, states)
}

// UpdateWithTime advances the estimate by the time elapsed since the previous timed update.
// currentTime is in seconds on any monotonic timeline; the first call after construction or a
// reset integrates no distance.
func (odo *SwerveDriveOdometry) UpdateWithTime(
	currentTime float64,
	gyroAngle spatialmath.Rotation2d,
	states ...kinematics.SwerveModuleState,
) (spatialmath.Pose2d, error) {
	if !utils.IsFinite(currentTime) {
		return spatialmath.Pose2d{}, &kinematics.NumericDomainError{Field: "time", Value: currentTime}
	}
	odo.mu.Lock()
	defer odo.mu.Unlock()

	dt := 0.0
	if odo.hasPreviousTime {
		dt = currentTime - odo.previousTime
	}
	pose, err := odo.integrate(dt, gyroAngle, states)
	if err != nil {
		return pose, err
	}
	odo.previousTime = currentTime
	odo.hasPreviousTime = true
	return pose, nil
}

// UpdateNow is UpdateWithTime using the configured clock.
func (odo *SwerveDriveOdometry) UpdateNow(
	gyroAngle spatialmath.Rotation2d,
	states ...kinematics.SwerveModuleState,
) (spatialmath.Pose2d, error) {
	odo.mu.Lock()
	defer odo.mu.Unlock()

	now := odo.clock.Now()
	dt := 0.0
	if !odo.previousNow.IsZero() {
		dt = now.Sub(odo.previousNow).Seconds()
	}
	pose, err := odo.integrate(dt, gyroAngle, states)
	if err != nil {
		return pose, err
	}
	odo.previousNow = now
	return pose, nil
}

// integrate applies one step of dt seconds. The state is untouched when an error is returned.
// Callers hold mu.
func (odo *SwerveDriveOdometry) integrate(
	dt float64,
	gyroAngle spatialmath.Rotation2d,
	states []kinematics.SwerveModuleState,
) (spatialmath.Pose2d, error) {
	if !gyroAngle.IsFinite() {
		return odo.pose, &kinematics.NumericDomainError{Field: "gyro angle", Value: gyroAngle.Radians()}
	}
	speeds, err := odo.kinematics.ToChassisSpeeds(states...)
	if err != nil {
		return odo.pose, err
	}

	// An unchanged reading keeps the last heading exactly instead of re-adding the offset.
	angle := odo.previousAngle
	if gyroAngle.Radians() != odo.previousGyro.Radians() {
		angle = gyroAngle.Add(odo.gyroOffset)
	}
	dtheta := utils.AngleDiffRad(odo.previousAngle.Radians(), angle.Radians())
	if math.Abs(dtheta) > gyroJumpWarnRad {
		odo.logger.Warnw("large gyro change in one update", "dtheta_deg", utils.RadToDeg(dtheta), "dt", dt)
	}

	twist := spatialmath.Twist2d{Dx: speeds.Vx * dt, Dy: speeds.Vy * dt, Dtheta: dtheta}

	var translation spatialmath.Translation2d
	switch odo.integration {
	case Exponential:
		translation = odo.pose.Exp(twist).Translation()
	default:
		delta := spatialmath.NewTranslation2d(twist.Dx, twist.Dy).RotateBy(odo.pose.Rotation())
		translation = odo.pose.Translation().Add(delta)
	}

	odo.previousAngle = angle
	odo.previousGyro = gyroAngle
	odo.pose = spatialmath.NewPose2d(translation, angle)
	return odo.pose, nil
}

package odometry

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/swerve/kinematics"
	"go.viam.com/swerve/spatialmath"
)

// Sensors supplies the measurements odometry consumes each period.
type Sensors interface {
	// Heading is the current gyro reading, counter-clockwise positive.
	Heading(ctx context.Context) (spatialmath.Rotation2d, error)
	// ModuleStates are the measured module states in configured order.
	ModuleStates(ctx context.Context) ([]kinematics.SwerveModuleState, error)
}

// Tracker polls Sensors once per odometry period on a background worker and feeds the
// readings to UpdateNow. Failed reads and updates are logged and skipped.
type Tracker struct {
	odo     *SwerveDriveOdometry
	sensors Sensors
	workers *goutils.StoppableWorkers

	mu      sync.Mutex
	updates int
	lastErr error
}

// NewTracker starts tracking. Call Stop to end it.
func NewTracker(odo *SwerveDriveOdometry, sensors Sensors) (*Tracker, error) {
	if odo == nil || sensors == nil {
		return nil, errors.New("tracker requires odometry and sensors")
	}
	t := &Tracker{odo: odo, sensors: sensors}
	t.workers = goutils.NewBackgroundStoppableWorkers(t.run)
	return t, nil
}

func (t *Tracker) run(ctx context.Context) {
	ticker := t.odo.clock.Ticker(t.odo.period)
	defer ticker.Stop()
	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.step(ctx)
		}
	}
}

func (t *Tracker) step(ctx context.Context) {
	err := t.poll(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		if ctx.Err() == nil {
			t.odo.logger.Warnw("skipping odometry update", "error", err)
		}
		t.lastErr = err
		return
	}
	t.updates++
	t.lastErr = nil
}

func (t *Tracker) poll(ctx context.Context) error {
	heading, err := t.sensors.Heading(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot read heading")
	}
	states, err := t.sensors.ModuleStates(ctx)
	if err != nil {
		return errors.Wrap(err, "cannot read module states")
	}
	_, err = t.odo.UpdateNow(heading, states...)
	return err
}

// Pose returns the current estimate.
func (t *Tracker) Pose() spatialmath.Pose2d {
	return t.odo.Pose()
}

// Updates is the number of successful updates so far.
func (t *Tracker) Updates() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updates
}

// Err is the error from the most recent poll, nil if it succeeded.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// Stop ends tracking and waits for the worker to exit.
func (t *Tracker) Stop() {
	t.workers.Stop()
}

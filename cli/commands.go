package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/swerve/config"
	"go.viam.com/swerve/kinematics"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/odometry"
	"go.viam.com/swerve/spatialmath"
)

func (r *runner) statesAction(c *cli.Context) error {
	k, err := r.cfg.Kinematics()
	if err != nil {
		return err
	}

	speeds := kinematics.ChassisSpeeds{
		Vx:    c.Float64(flagVX),
		Vy:    c.Float64(flagVY),
		Omega: c.Float64(flagOmega),
	}
	if c.Bool(flagFieldRel) {
		heading := spatialmath.NewRotation2dFromDegrees(c.Float64(flagHeadingDeg))
		speeds = kinematics.FromFieldRelativeSpeeds(speeds.Vx, speeds.Vy, speeds.Omega, heading)
	}
	r.logger.Debugw("computing module states", "speeds", speeds.String())

	cor := spatialmath.NewTranslation2d(c.Float64(flagCORX), c.Float64(flagCORY))
	var states []kinematics.SwerveModuleState
	switch {
	case c.IsSet(flagMaxSpeed):
		states, err = k.ToSwerveModuleStatesAroundLimited(speeds, cor, c.Float64(flagMaxSpeed))
	case r.cfg.MaxModuleSpeedMPS > 0:
		states, err = k.ToSwerveModuleStatesAroundLimited(speeds, cor, r.cfg.MaxModuleSpeedMPS)
	default:
		states, err = k.ToSwerveModuleStatesAround(speeds, cor)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, moduleStatesTable(r.cfg, states))
	return nil
}

func (r *runner) chassisAction(c *cli.Context) error {
	k, err := r.cfg.Kinematics()
	if err != nil {
		return err
	}

	raw := c.StringSlice(flagState)
	states := make([]kinematics.SwerveModuleState, 0, len(raw))
	for _, s := range raw {
		state, err := parseModuleState(s)
		if err != nil {
			return err
		}
		states = append(states, state)
	}

	speeds, err := k.ToChassisSpeeds(states...)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, chassisSpeedsTable(speeds))
	return nil
}

func (r *runner) simulateAction(c *cli.Context) error {
	//nolint:gosec
	f, err := os.Open(c.String(flagScript))
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warnw("failed to close script", "error", err)
		}
	}()
	commands, err := parseScript(f)
	if err != nil {
		return errors.Wrapf(err, "cannot parse script %q", c.String(flagScript))
	}

	cfg := *r.cfg
	if c.IsSet(flagIntegration) {
		cfg.Integration = c.String(flagIntegration)
	}
	k, err := cfg.Kinematics()
	if err != nil {
		return err
	}

	result, err := simulate(&cfg, k, commands, r.logger)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, poseTable(result.steps))
	final := result.steps[len(result.steps)-1].pose
	fmt.Fprintf(c.App.Writer, "final pose: %s\n", final)

	if path := c.String(flagPlot); path != "" {
		if err := plotTrace(result.trace, path); err != nil {
			return err
		}
		r.logger.Infow("wrote odometry plot", "path", path)
	}
	return nil
}

// simStep is the pose after one script command finished.
type simStep struct {
	command scriptCommand
	elapsed float64
	pose    spatialmath.Pose2d
}

type simResult struct {
	// steps has the starting pose followed by the pose after each command.
	steps []simStep
	// trace has the pose after every update, starting pose included.
	trace []spatialmath.Pose2d
}

// simulate drives the odometry with the module states each command produces. The gyro is
// assumed to track the angular speed those states achieve, which is below the commanded one
// when the configured speed limit scales the modules down.
func simulate(
	cfg *config.Config,
	k *kinematics.SwerveDriveKinematics,
	commands []scriptCommand,
	logger logging.Logger,
) (simResult, error) {
	gyroRad := 0.0
	odo, err := cfg.Odometry(k, spatialmath.NewRotation2d(gyroRad), odometry.WithLogger(logger.Sublogger("odometry")))
	if err != nil {
		return simResult{}, err
	}
	dt := odo.Period().Seconds()

	start := odo.Pose()
	result := simResult{
		steps: []simStep{{pose: start}},
		trace: []spatialmath.Pose2d{start},
	}
	elapsed := 0.0
	for i, cmd := range commands {
		states, err := cfg.ModuleStates(k, cmd.speeds)
		if err != nil {
			return simResult{}, errors.Wrapf(err, "command %d", i+1)
		}
		achieved, err := k.ToChassisSpeeds(states...)
		if err != nil {
			return simResult{}, errors.Wrapf(err, "command %d", i+1)
		}
		for n := 0; n < cmd.steps; n++ {
			gyroRad += achieved.Omega * dt
			pose, err := odo.Update(spatialmath.NewRotation2d(gyroRad), states...)
			if err != nil {
				return simResult{}, errors.Wrapf(err, "command %d", i+1)
			}
			result.trace = append(result.trace, pose)
		}
		elapsed += float64(cmd.steps) * dt
		pose := odo.Pose()
		logger.Debugw("command finished", "command", i+1, "pose", pose.String())
		result.steps = append(result.steps, simStep{command: cmd, elapsed: elapsed, pose: pose})
	}
	return result, nil
}

// parseModuleState parses "speed:degrees".
func parseModuleState(s string) (kinematics.SwerveModuleState, error) {
	speedStr, degStr, ok := strings.Cut(s, ":")
	if !ok {
		return kinematics.SwerveModuleState{}, errors.Errorf("module state %q must look like <speed>:<degrees>", s)
	}
	speed, err := strconv.ParseFloat(strings.TrimSpace(speedStr), 64)
	if err != nil {
		return kinematics.SwerveModuleState{}, errors.Wrapf(err, "bad speed in module state %q", s)
	}
	deg, err := strconv.ParseFloat(strings.TrimSpace(degStr), 64)
	if err != nil {
		return kinematics.SwerveModuleState{}, errors.Wrapf(err, "bad angle in module state %q", s)
	}
	return kinematics.NewSwerveModuleStateDegrees(speed, deg), nil
}

func schemaAction(c *cli.Context) error {
	schema, err := config.Schema()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(schema))
	return nil
}

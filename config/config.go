// Package config defines the swerve drive configuration and how it is read and validated.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"go.viam.com/swerve/kinematics"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/odometry"
	"go.viam.com/swerve/spatialmath"
	"go.viam.com/swerve/utils"
)

// Module is the position of one swerve module relative to the robot center, in meters.
type Module struct {
	Name string  `json:"name"`
	X    float64 `json:"x_m"`
	Y    float64 `json:"y_m"`
}

// Translation returns the module position.
func (m Module) Translation() spatialmath.Translation2d {
	return spatialmath.NewTranslation2d(m.X, m.Y)
}

// Config describes a swerve drive. Modules are listed in the order that module states are
// produced and consumed.
type Config struct {
	ConfigFilePath string `json:"-"`

	Modules           []Module `json:"modules" jsonschema:"minItems=2"`
	MaxModuleSpeedMPS float64  `json:"max_module_speed_mps,omitempty" jsonschema:"minimum=0"`
	PeriodMs          float64  `json:"period_ms,omitempty" jsonschema:"minimum=0"`
	Integration       string   `json:"integration,omitempty" jsonschema:"enum=euler,enum=exponential"`
	LogLevel          string   `json:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// Validate ensures all parts of the config are valid. Every problem found is reported.
func (cfg *Config) Validate(path string) error {
	var errs error

	if len(cfg.Modules) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "modules")
	}
	if len(cfg.Modules) < 2 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("a swerve drive requires at least 2 modules, got %d", len(cfg.Modules))))
	}

	seen := make(map[string]int, len(cfg.Modules))
	for i, m := range cfg.Modules {
		modulePath := fmt.Sprintf("%s.modules.%d", path, i)
		if m.Name == "" {
			errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError(modulePath, "name"))
		} else if prev, ok := seen[m.Name]; ok {
			errs = multierr.Append(errs, utils.NewConfigValidationError(modulePath,
				errors.Errorf("duplicate module name %q, first used by module %d", m.Name, prev)))
		} else {
			seen[m.Name] = i
		}
		if !utils.IsFinite(m.X, m.Y) {
			errs = multierr.Append(errs, utils.NewConfigValidationError(modulePath,
				errors.Errorf("position (%v, %v) must be finite", m.X, m.Y)))
		}
	}

	if !utils.IsFinite(cfg.MaxModuleSpeedMPS) || cfg.MaxModuleSpeedMPS < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("max_module_speed_mps must be a non-negative number, got %v", cfg.MaxModuleSpeedMPS)))
	}
	if !utils.IsFinite(cfg.PeriodMs) || cfg.PeriodMs < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("period_ms must be a non-negative number, got %v", cfg.PeriodMs)))
	}
	if _, err := odometry.ParseIntegration(cfg.Integration); err != nil {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, err))
	}
	if cfg.LogLevel != "" {
		if _, err := logging.LevelFromString(cfg.LogLevel); err != nil {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path, err))
		}
	}
	return errs
}

// Translations returns the module positions in order.
func (cfg *Config) Translations() []spatialmath.Translation2d {
	return lo.Map(cfg.Modules, func(m Module, _ int) spatialmath.Translation2d {
		return m.Translation()
	})
}

// Period returns the control period, or odometry.DefaultPeriod when unset.
func (cfg *Config) Period() time.Duration {
	if cfg.PeriodMs == 0 {
		return odometry.DefaultPeriod
	}
	return time.Duration(math.Round(cfg.PeriodMs * float64(time.Millisecond)))
}

// Level returns the configured log level, INFO when unset.
func (cfg *Config) Level() logging.Level {
	if cfg.LogLevel == "" {
		return logging.INFO
	}
	level, err := logging.LevelFromString(cfg.LogLevel)
	if err != nil {
		return logging.INFO
	}
	return level
}

// Kinematics builds the kinematics for the configured modules.
func (cfg *Config) Kinematics() (*kinematics.SwerveDriveKinematics, error) {
	return kinematics.NewSwerveDriveKinematics(cfg.Translations())
}

// Odometry builds an odometry estimate using the configured period and integration method.
// Extra options are applied after the configured ones.
func (cfg *Config) Odometry(
	k *kinematics.SwerveDriveKinematics,
	gyroAngle spatialmath.Rotation2d,
	opts ...odometry.Option,
) (*odometry.SwerveDriveOdometry, error) {
	integration, err := odometry.ParseIntegration(cfg.Integration)
	if err != nil {
		return nil, err
	}
	all := append([]odometry.Option{
		odometry.WithPeriod(cfg.Period()),
		odometry.WithIntegration(integration),
	}, opts...)
	return odometry.New(k, gyroAngle, all...)
}

// ModuleStates converts chassis speeds to module states, applying the configured speed limit
// if one is set.
func (cfg *Config) ModuleStates(
	k *kinematics.SwerveDriveKinematics,
	speeds kinematics.ChassisSpeeds,
) ([]kinematics.SwerveModuleState, error) {
	if cfg.MaxModuleSpeedMPS > 0 {
		return k.ToSwerveModuleStatesLimited(speeds, cfg.MaxModuleSpeedMPS)
	}
	return k.ToSwerveModuleStates(speeds)
}

// String prints out a table of the modules with their positions.
func (cfg *Config) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "X (m)", "Y (m)", "Radius (m)"})
	for i, m := range cfg.Modules {
		t.AppendRow(table.Row{
			fmt.Sprintf("%d", i),
			m.Name,
			fmt.Sprintf("%.3f", m.X),
			fmt.Sprintf("%.3f", m.Y),
			fmt.Sprintf("%.3f", m.Translation().Norm()),
		})
	}
	return t.Render()
}

// Default returns a square drive with a module at each corner, 0.3 m from both axes.
func Default() *Config {
	return &Config{
		Modules: []Module{
			{Name: "front_left", X: 0.3, Y: 0.3},
			{Name: "front_right", X: 0.3, Y: -0.3},
			{Name: "back_left", X: -0.3, Y: 0.3},
			{Name: "back_right", X: -0.3, Y: -0.3},
		},
	}
}

// Schema returns the JSON schema of the drive config file.
func Schema() ([]byte, error) {
	return json.MarshalIndent(jsonschema.Reflect(&Config{}), "", "  ")
}

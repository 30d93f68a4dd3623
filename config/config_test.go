package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/multierr"
	"go.viam.com/test"

	"go.viam.com/swerve/kinematics"
	"go.viam.com/swerve/logging"
	"go.viam.com/swerve/odometry"
	"go.viam.com/swerve/spatialmath"
)

func squareConfig() *Config {
	return Default()
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := squareConfig()
		test.That(t, cfg.Validate("drive"), test.ShouldBeNil)
	})

	t.Run("default is a fresh copy", func(t *testing.T) {
		cfg := Default()
		cfg.Modules[0].X = 10
		test.That(t, Default().Modules[0].X, test.ShouldEqual, 0.3)
	})

	t.Run("no modules", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Validate("drive")
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, `"modules" is required`)
	})

	t.Run("single module", func(t *testing.T) {
		cfg := &Config{Modules: []Module{{Name: "only", X: 1}}}
		err := cfg.Validate("drive")
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "at least 2 modules, got 1")
	})

	t.Run("every problem is reported", func(t *testing.T) {
		cfg := squareConfig()
		cfg.Modules[1].Name = "front_left"
		cfg.Modules[2].Name = ""
		cfg.Modules[3].X = math.NaN()
		cfg.MaxModuleSpeedMPS = -1
		cfg.PeriodMs = math.Inf(1)
		cfg.Integration = "rk4"
		cfg.LogLevel = "loud"

		err := cfg.Validate("drive")
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, multierr.Errors(err), test.ShouldHaveLength, 7)
		msg := err.Error()
		test.That(t, msg, test.ShouldContainSubstring, `duplicate module name "front_left"`)
		test.That(t, msg, test.ShouldContainSubstring, `"drive.modules.2"`)
		test.That(t, msg, test.ShouldContainSubstring, `"drive.modules.3"`)
		test.That(t, msg, test.ShouldContainSubstring, "max_module_speed_mps")
		test.That(t, msg, test.ShouldContainSubstring, "period_ms")
		test.That(t, msg, test.ShouldContainSubstring, `unknown integration method "rk4"`)
		test.That(t, msg, test.ShouldContainSubstring, "loud")
	})
}

func TestConfigDefaults(t *testing.T) {
	cfg := squareConfig()
	test.That(t, cfg.Period(), test.ShouldEqual, odometry.DefaultPeriod)
	test.That(t, cfg.Level(), test.ShouldEqual, logging.INFO)

	cfg.PeriodMs = 5
	cfg.LogLevel = "debug"
	test.That(t, cfg.Period(), test.ShouldEqual, 5*time.Millisecond)
	test.That(t, cfg.Level(), test.ShouldEqual, logging.DEBUG)
}

func TestRead(t *testing.T) {
	cfg, err := Read("data/square.json")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, "data/square.json")
	test.That(t, cfg.Modules, test.ShouldHaveLength, 4)
	test.That(t, cfg.Modules[1], test.ShouldResemble, Module{Name: "front_right", X: 0.3, Y: -0.3})
	test.That(t, cfg.MaxModuleSpeedMPS, test.ShouldEqual, 4.5)
	test.That(t, cfg.Period(), test.ShouldEqual, 20*time.Millisecond)

	_, err = Read("data/missing.json")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadExpandsEnvironment(t *testing.T) {
	t.Setenv("SWERVE_TEST_TRACK", "0.25")
	path := filepath.Join(t.TempDir(), "drive.json")
	contents := `{"modules": [
		{"name": "left", "x_m": 0, "y_m": ${SWERVE_TEST_TRACK}},
		{"name": "right", "x_m": 0, "y_m": -${SWERVE_TEST_TRACK}}
	]}`
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)

	cfg, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Modules[0].Y, test.ShouldEqual, 0.25)
	test.That(t, cfg.Modules[1].Y, test.ShouldEqual, -0.25)
}

func TestFromReader(t *testing.T) {
	_, err := FromReader("", strings.NewReader(`{"modules": [`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to decode Config from json")

	_, err = FromReader("", strings.NewReader(`{"wheels": []}`))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = FromReader("", strings.NewReader(`{"modules": [{"name": "a", "x_m": 1, "y_m": 0}]}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "at least 2 modules")
}

func TestFromAttributes(t *testing.T) {
	attrs := map[string]interface{}{
		"modules": []interface{}{
			map[string]interface{}{"name": "left", "x_m": 0, "y_m": 0.5},
			map[string]interface{}{"name": "right", "x_m": 0, "y_m": "-0.5"},
		},
		"integration": "exponential",
		"period_ms":   10,
	}
	cfg, err := FromAttributes(attrs)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Modules, test.ShouldResemble, []Module{
		{Name: "left", X: 0, Y: 0.5},
		{Name: "right", X: 0, Y: -0.5},
	})
	test.That(t, cfg.Period(), test.ShouldEqual, 10*time.Millisecond)

	attrs["wheel_radius"] = 0.05
	_, err = FromAttributes(attrs)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "wheel_radius")
}

func TestConfigBuildsDrive(t *testing.T) {
	cfg := squareConfig()
	cfg.Integration = "exponential"
	cfg.PeriodMs = 50

	k, err := cfg.Kinematics()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, k.NumModules(), test.ShouldEqual, 4)

	odo, err := cfg.Odometry(k, spatialmath.NewRotation2d(0))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, odo.Period(), test.ShouldEqual, 50*time.Millisecond)
	test.That(t, odo.Integration(), test.ShouldEqual, odometry.Exponential)

	odo, err = cfg.Odometry(k, spatialmath.NewRotation2d(0), odometry.WithPeriod(time.Second))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, odo.Period(), test.ShouldEqual, time.Second)
}

func TestConfigModuleStates(t *testing.T) {
	cfg := squareConfig()
	k, err := cfg.Kinematics()
	test.That(t, err, test.ShouldBeNil)
	speeds := kinematics.ChassisSpeeds{Vx: 5}

	states, err := cfg.ModuleStates(k, speeds)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, states[0].Speed, test.ShouldAlmostEqual, 5)

	cfg.MaxModuleSpeedMPS = 2
	states, err = cfg.ModuleStates(k, speeds)
	test.That(t, err, test.ShouldBeNil)
	for _, s := range states {
		test.That(t, s.Speed, test.ShouldAlmostEqual, 2)
	}
}

func TestConfigString(t *testing.T) {
	out := squareConfig().String()
	test.That(t, out, test.ShouldContainSubstring, "front_left")
	test.That(t, out, test.ShouldContainSubstring, "-0.300")
	test.That(t, out, test.ShouldContainSubstring, "0.424")
}

func TestSchema(t *testing.T) {
	schema, err := Schema()
	test.That(t, err, test.ShouldBeNil)
	out := string(schema)
	test.That(t, out, test.ShouldContainSubstring, `"modules"`)
	test.That(t, out, test.ShouldContainSubstring, `"max_module_speed_mps"`)
	test.That(t, out, test.ShouldContainSubstring, `"exponential"`)
	test.That(t, out, test.ShouldNotContainSubstring, "ConfigFilePath")
}

func TestTranslations(t *testing.T) {
	translations := squareConfig().Translations()
	test.That(t, translations, test.ShouldHaveLength, 4)
	test.That(t, translations[3].X(), test.ShouldEqual, -0.3)
	test.That(t, translations[3].Y(), test.ShouldEqual, -0.3)
}

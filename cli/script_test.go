package cli

import (
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/swerve/kinematics"
)

func TestParseScript(t *testing.T) {
	commands, err := parseScript(strings.NewReader(`
# square
1 0 0 10
  0 0.5 -1.5 3
`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, commands, test.ShouldResemble, []scriptCommand{
		{speeds: kinematics.ChassisSpeeds{Vx: 1}, steps: 10},
		{speeds: kinematics.ChassisSpeeds{Vy: 0.5, Omega: -1.5}, steps: 3},
	})

	for _, tc := range []struct {
		script string
		errMsg string
	}{
		{"", "no commands"},
		{"# nothing\n", "no commands"},
		{"1 0 0 1 1\n", "line 1"},
		{"1 0 0 1\nx 0 0 1\n", "line 2"},
		{"1 0 0 1.5\n", "line 1"},
		{"1 0 0 -1\n", "must not be negative"},
	} {
		_, err := parseScript(strings.NewReader(tc.script))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, tc.errMsg)
	}
}

func TestParseModuleState(t *testing.T) {
	state, err := parseModuleState("1.5:90")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, state.Speed, test.ShouldEqual, 1.5)
	test.That(t, state.Angle.Degrees(), test.ShouldAlmostEqual, 90)

	state, err = parseModuleState(" -2 : -45 ")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, state.Speed, test.ShouldEqual, -2.0)
	test.That(t, state.Angle.Degrees(), test.ShouldAlmostEqual, -45)

	for _, bad := range []string{"1.5", "a:90", "1:b"} {
		_, err := parseModuleState(bad)
		test.That(t, err, test.ShouldNotBeNil)
	}
}

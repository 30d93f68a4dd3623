package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"go.viam.com/swerve/config"
	"go.viam.com/swerve/kinematics"
)

func moduleStatesTable(cfg *config.Config, states []kinematics.SwerveModuleState) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Module", "Speed (m/s)", "Angle (deg)"})
	for i, s := range states {
		name := fmt.Sprintf("%d", i)
		if i < len(cfg.Modules) && cfg.Modules[i].Name != "" {
			name = cfg.Modules[i].Name
		}
		t.AppendRow(table.Row{name, fmt.Sprintf("%.3f", s.Speed), fmt.Sprintf("%.2f", s.Angle.Degrees())})
	}
	return t.Render()
}

func chassisSpeedsTable(speeds kinematics.ChassisSpeeds) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"vx (m/s)", "vy (m/s)", "omega (rad/s)"})
	t.AppendRow(table.Row{
		fmt.Sprintf("%.3f", speeds.Vx),
		fmt.Sprintf("%.3f", speeds.Vy),
		fmt.Sprintf("%.3f", speeds.Omega),
	})
	return t.Render()
}

func poseTable(steps []simStep) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Command", "Time (s)", "X (m)", "Y (m)", "Heading (deg)"})
	for i, s := range steps {
		command := "start"
		if i > 0 {
			command = fmt.Sprintf("%g %g %g x%d", s.command.speeds.Vx, s.command.speeds.Vy, s.command.speeds.Omega, s.command.steps)
		}
		t.AppendRow(table.Row{
			fmt.Sprintf("%d", i),
			command,
			fmt.Sprintf("%.3f", s.elapsed),
			fmt.Sprintf("%.3f", s.pose.X()),
			fmt.Sprintf("%.3f", s.pose.Y()),
			fmt.Sprintf("%.2f", s.pose.Rotation().Degrees()),
		})
	}
	return t.Render()
}

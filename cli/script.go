package cli

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/swerve/kinematics"
)

// scriptCommand holds chassis speeds for a number of control periods.
type scriptCommand struct {
	speeds kinematics.ChassisSpeeds
	steps  int
}

// parseScript reads one "vx vy omega steps" command per line. Blank lines and lines
// starting with # are skipped.
func parseScript(r io.Reader) ([]scriptCommand, error) {
	var commands []scriptCommand
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, errors.Errorf("line %d: expected \"vx vy omega steps\", got %q", lineNum, line)
		}
		var values [3]float64
		for i := range values {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNum)
			}
			values[i] = v
		}
		steps, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
		if steps < 0 {
			return nil, errors.Errorf("line %d: steps must not be negative, got %d", lineNum, steps)
		}
		commands = append(commands, scriptCommand{
			speeds: kinematics.ChassisSpeeds{Vx: values[0], Vy: values[1], Omega: values[2]},
			steps:  steps,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(commands) == 0 {
		return nil, errors.New("script has no commands")
	}
	return commands, nil
}

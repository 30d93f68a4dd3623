// Package cli contains the swerve command line tool.
package cli

import (
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/swerve/config"
	"go.viam.com/swerve/logging"
)

const (
	// Global flags.
	flagConfig = "config"
	flagDebug  = "debug"

	// Command flags.
	flagVX          = "vx"
	flagVY          = "vy"
	flagOmega       = "omega"
	flagCORX        = "cor-x"
	flagCORY        = "cor-y"
	flagMaxSpeed    = "max-speed"
	flagFieldRel    = "field-relative"
	flagHeadingDeg  = "heading"
	flagState       = "state"
	flagScript      = "script"
	flagIntegration = "integration"
	flagPlot        = "plot"
)

// runner holds what every command needs once the global flags are parsed.
type runner struct {
	cfg    *config.Config
	logger logging.Logger
}

func (r *runner) before(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		cfg, err = config.Read(path)
		if err != nil {
			return errors.Wrapf(err, "cannot load config from %q", path)
		}
	}
	r.cfg = cfg

	r.logger = logging.NewWriterLogger("swerve", c.App.ErrWriter)
	r.logger.SetLevel(cfg.Level())
	if c.Bool(flagDebug) {
		r.logger.SetLevel(logging.DEBUG)
	}
	r.logger.Debugw("loaded drive config", "path", cfg.ConfigFilePath, "modules", len(cfg.Modules))
	return nil
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	r := &runner{}
	return &cli.App{
		Name:      "swerve",
		Usage:     "swerve drive kinematics and odometry",
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load drive configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Before: r.before,
		Commands: []*cli.Command{
			{
				Name:      "states",
				Usage:     "compute module states for chassis speeds",
				UsageText: "swerve states --vx <m/s> --vy <m/s> --omega <rad/s> [other options]",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: flagVX, Usage: "forward speed in m/s"},
					&cli.Float64Flag{Name: flagVY, Usage: "leftward speed in m/s"},
					&cli.Float64Flag{Name: flagOmega, Usage: "counter-clockwise angular speed in rad/s"},
					&cli.Float64Flag{Name: flagCORX, Usage: "center of rotation x in m"},
					&cli.Float64Flag{Name: flagCORY, Usage: "center of rotation y in m"},
					&cli.Float64Flag{
						Name:  flagMaxSpeed,
						Usage: "scale module speeds down to at most this many m/s, overriding the config",
					},
					&cli.BoolFlag{
						Name:  flagFieldRel,
						Usage: "treat vx and vy as field-relative",
					},
					&cli.Float64Flag{
						Name:  flagHeadingDeg,
						Usage: "robot heading in degrees, used with --field-relative",
					},
				},
				Action: r.statesAction,
			},
			{
				Name:      "chassis",
				Usage:     "compute the best-fit chassis speeds for module states",
				UsageText: "swerve chassis --state <speed>:<degrees> [--state <speed>:<degrees> ...]",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     flagState,
						Usage:    "module state as speed in m/s and angle in degrees, once per module in config order",
						Required: true,
					},
				},
				Action: r.chassisAction,
			},
			{
				Name:      "simulate",
				Usage:     "integrate odometry over a script of chassis speed commands",
				UsageText: "swerve simulate --script <FILE>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagScript,
						Usage:    "`FILE` with one \"vx vy omega steps\" command per line",
						Required: true,
					},
					&cli.StringFlag{
						Name:  flagIntegration,
						Usage: "euler or exponential, overriding the config",
					},
					&cli.StringFlag{
						Name:  flagPlot,
						Usage: "also draw the path to `FILE`; the extension picks the format (png, svg, pdf)",
					},
				},
				Action: r.simulateAction,
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of the drive config file",
				Action: schemaAction,
			},
		},
	}
}

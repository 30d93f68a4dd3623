package cli

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go.viam.com/swerve/spatialmath"
)

const plotSize = 6 * vg.Inch

// plotTrace draws the field position of every pose in the trace.
func plotTrace(trace []spatialmath.Pose2d, path string) error {
	p := plot.New()
	p.Title.Text = "Odometry"
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(trace))
	for i, pose := range trace {
		xys[i].X = pose.X()
		xys[i].Y = pose.Y()
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return errors.Wrap(err, "cannot draw path")
	}
	ends, err := plotter.NewScatter(plotter.XYs{xys[0], xys[len(xys)-1]})
	if err != nil {
		return errors.Wrap(err, "cannot draw path ends")
	}
	p.Add(line, ends)

	if err := p.Save(plotSize, plotSize, path); err != nil {
		return errors.Wrapf(err, "cannot save plot to %q", path)
	}
	return nil
}

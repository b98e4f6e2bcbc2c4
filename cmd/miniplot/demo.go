package main

import (
	"math"

	"github.com/raykavin/miniplot"
	"github.com/raykavin/miniplot/pkg/core"
	"github.com/raykavin/miniplot/pkg/numeric"
	"github.com/raykavin/miniplot/pkg/render"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

func buildDemoCmd() *cobra.Command {
	var renderer, output string

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Render a sample chart of joint angles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}

			if renderer != "" {
				cfg.Renderer = renderer
			}
			if output != "" {
				cfg.Output = output
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			r, err := render.New(cfg, log)
			if err != nil {
				return err
			}

			return jointAngles(miniplot.WithLogger(log)).Render(cmd.Context(), r)
		},
	}

	demoCmd.Flags().StringVarP(&renderer, "renderer", "r", "", "Renderer: web, png, html, text or telegram")
	demoCmd.Flags().StringVarP(&output, "output", "o", "", "Output file for png and html renderers")

	return demoCmd
}

// jointAngles plots three sine and three dashed red cosine rows against time,
// plus a short pointed line
func jointAngles(options ...miniplot.Option) *miniplot.MiniPlot {
	const (
		n  = 1000
		dt = 0.01
	)

	time := make([]float64, n)
	for i := range time {
		time[i] = float64(i) * dt
	}

	theta := mat.NewDense(3, n, nil)
	thetaD := mat.NewDense(3, n, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < n; c++ {
			theta.Set(r, c, math.Sin(float64(c)*dt+float64(r)))
			thetaD.Set(r, c, math.Cos(float64(c)*dt+float64(r)))
		}
	}

	line := [6]float64{1, 2, 3, 4, 5, 6}

	return miniplot.New("Joint Angles", options...).
		XLabel("Time").
		YLabel("Angle [rad]").
		MatrixRows(numeric.Values(time), theta).
		Pointed().
		MatrixRows(numeric.Values(time), thetaD).
		Color(core.Red).
		Dashed().
		Plot(numeric.Values(line[:])).
		Name("Line").
		Pointed().
		Legend()
}

package main

import (
	"fmt"

	"github.com/raykavin/miniplot"
	"github.com/raykavin/miniplot/pkg/config"
	"github.com/raykavin/miniplot/pkg/dataset"
	"github.com/raykavin/miniplot/pkg/indicator"
	"github.com/raykavin/miniplot/pkg/numeric"
	"github.com/raykavin/miniplot/pkg/render"
	"github.com/spf13/cobra"
)

// renderFlags holds the flags of the render command
type renderFlags struct {
	x        string
	y        []string
	rows     bool
	title    string
	xLabel   string
	yLabel   string
	legend   bool
	aspect   float64
	square   bool
	dashed   bool
	dotted   bool
	pointed  bool
	sma      int
	ema      int
	renderer string
	output   string
	progress bool
}

func buildRenderCmd() *cobra.Command {
	flags := &renderFlags{}

	renderCmd := &cobra.Command{
		Use:   "render <file.csv>",
		Short: "Render columns of a CSV file as a chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], flags)
		},
	}

	f := renderCmd.Flags()
	f.StringVarP(&flags.x, "x", "x", "", "Column with the x values (default row index)")
	f.StringSliceVarP(&flags.y, "y", "y", nil, "Columns with the y values, one series each")
	f.BoolVar(&flags.rows, "rows", false, "Plot the y columns as rows of a matrix (named Row <n>)")
	f.StringVarP(&flags.title, "title", "t", "", "Chart title (default file name)")
	f.StringVar(&flags.xLabel, "xlabel", "", "X axis label (default x column)")
	f.StringVar(&flags.yLabel, "ylabel", "", "Y axis label")
	f.BoolVarP(&flags.legend, "legend", "l", false, "Show the legend")
	f.Float64Var(&flags.aspect, "aspect", 0, "Plot area width/height ratio")
	f.BoolVar(&flags.square, "square", false, "Same scale on both axes")
	f.BoolVar(&flags.dashed, "dashed", false, "Dashed line for the last series")
	f.BoolVar(&flags.dotted, "dotted", false, "Dotted line for the last series")
	f.BoolVar(&flags.pointed, "pointed", false, "Markers on the points of the last series")
	f.IntVar(&flags.sma, "sma", 0, "Add a simple moving average of the last series")
	f.IntVar(&flags.ema, "ema", 0, "Add an exponential moving average of the last series")
	f.StringVarP(&flags.renderer, "renderer", "r", "", "Renderer: web, png, html, text or telegram")
	f.StringVarP(&flags.output, "output", "o", "", "Output file for png and html renderers")
	f.BoolVar(&flags.progress, "progress", false, "Show a progress bar while loading")

	renderCmd.MarkFlagRequired("y")

	return renderCmd
}

func runRender(cmd *cobra.Command, file string, flags *renderFlags) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	if flags.renderer != "" {
		cfg.Renderer = flags.renderer
	}
	if flags.output != "" {
		cfg.Output = flags.output
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	table, err := dataset.LoadFile(file, flags.progress)
	if err != nil {
		return err
	}

	plot, err := buildPlot(table, file, flags, miniplot.WithLogger(log))
	if err != nil {
		return err
	}

	renderer, err := render.New(cfg, log)
	if err != nil {
		return err
	}

	if cfg.Renderer == config.RendererWeb {
		log.Info("serving chart, press Ctrl+C to stop")
	}
	return plot.Render(cmd.Context(), renderer)
}

// buildPlot turns the selected columns of table into a chart
func buildPlot(table *dataset.Table, file string, flags *renderFlags, options ...miniplot.Option) (*miniplot.MiniPlot, error) {
	title := flags.title
	if title == "" {
		title = file
	}

	plot := miniplot.New(title, options...)

	var x numeric.Adapter = numeric.Values(indices(table.Rows()))
	xLabel := flags.xLabel
	if flags.x != "" {
		column, err := table.Column(flags.x)
		if err != nil {
			return nil, err
		}
		x = column
		if xLabel == "" {
			xLabel = flags.x
		}
	}

	if flags.rows {
		m, err := table.Matrix(flags.y...)
		if err != nil {
			return nil, err
		}
		plot.MatrixRows(x, m)
	} else {
		for _, name := range flags.y {
			column, err := table.Column(name)
			if err != nil {
				return nil, err
			}
			plot.PlotXY(x, column).Name(name)
		}
	}

	if flags.dashed {
		plot.Dashed()
	}
	if flags.dotted {
		plot.Dotted()
	}
	if flags.pointed {
		plot.Pointed()
	}
	if flags.sma > 0 {
		plot.Indicator(indicator.SMA(flags.sma))
	}
	if flags.ema > 0 {
		plot.Indicator(indicator.EMA(flags.ema))
	}

	if xLabel != "" {
		plot.XLabel(xLabel)
	}
	if flags.yLabel != "" {
		plot.YLabel(flags.yLabel)
	}
	if flags.legend {
		plot.Legend()
	}
	if flags.square {
		plot.SquareAspectRatio()
	} else if flags.aspect != 0 {
		plot.AspectRatio(flags.aspect)
	}

	if plot.Len() == 0 {
		return nil, fmt.Errorf("no series selected from %s", file)
	}
	return plot, nil
}

func indices(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i)
	}
	return values
}

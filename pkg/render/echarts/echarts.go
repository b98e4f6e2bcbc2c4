// Package echarts writes charts as standalone HTML pages using go-echarts.
package echarts

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/raykavin/miniplot/pkg/core"
	"github.com/raykavin/miniplot/pkg/logger"
)

const (
	defaultWidth  = 900
	defaultHeight = 500
	minHeight     = 100
	maxHeight     = 4000
	symbolSize    = 8
)

// Renderer writes an interactive echarts page
type Renderer struct {
	width  int
	output string
	writer io.Writer
	log    logger.Logger
}

// Option configures a Renderer
type Option func(*Renderer)

// WithWidth sets the chart width in pixels, the height follows the aspect ratio
func WithWidth(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithOutput writes the page to the file at path
func WithOutput(path string) Option {
	return func(r *Renderer) {
		r.output = path
	}
}

// WithWriter writes the page to w instead of a file
func WithWriter(w io.Writer) Option {
	return func(r *Renderer) {
		r.writer = w
	}
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(r *Renderer) {
		r.log = log
	}
}

// New creates a Renderer writing chart.html by default
func New(options ...Option) *Renderer {
	r := &Renderer{
		width:  defaultWidth,
		output: "chart.html",
		log:    logger.Nop(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Render writes the chart page to the configured writer or file
func (r *Renderer) Render(ctx context.Context, chart core.Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.writer != nil {
		return r.Line(chart).Render(r.writer)
	}

	file, err := os.Create(r.output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.output, err)
	}

	if err := r.Line(chart).Render(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to render %s: %w", r.output, err)
	}
	if err := file.Close(); err != nil {
		return err
	}

	r.log.WithField("file", r.output).Info("chart saved")
	return nil
}

// Line builds the echarts line chart for chart
func (r *Renderer) Line(chart core.Chart) *charts.Line {
	options := chart.Options

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: options.Title,
			Width:     fmt.Sprintf("%dpx", r.width),
			Height:    fmt.Sprintf("%dpx", r.height(options)),
		}),
		charts.WithTitleOpts(opts.Title{Title: options.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: options.XLabel, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: options.YLabel, Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(options.Legend), Right: "5%"}),
	)

	for _, series := range chart.Series {
		color := series.Color.CSS()
		line.AddSeries(series.Name, lineData(series.Points),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color, Type: lineType(series.Style())}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineChartOpts(opts.LineChart{
				ShowSymbol: opts.Bool(series.Pointed || series.Len() == 1),
				Symbol:     "circle",
				SymbolSize: symbolSize,
			}),
		)
	}

	return line
}

func (r *Renderer) height(options core.Options) int {
	if !options.HasAspectRatio() {
		return defaultHeight
	}
	height := math.Round(float64(r.width) / options.AspectRatio)
	return int(math.Max(minHeight, math.Min(maxHeight, height)))
}

func lineType(style core.LineStyle) string {
	switch style {
	case core.Dashed:
		return "dashed"
	case core.Dotted:
		return "dotted"
	default:
		return "solid"
	}
}

// lineData converts points to [x, y] pairs, non-finite values become gaps
func lineData(points []core.Point) []opts.LineData {
	data := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.LineData{Value: []any{value(p.X), value(p.Y)}})
	}
	return data
}

// value returns v, or the echarts placeholder for a missing value
func value(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return v
}

// Package miniplot builds 2D line and point charts with a fluent API and hands
// the finished chart to a renderer.
//
//	err := miniplot.New("Joint Angles").
//		XLabel("Time").
//		YLabel("Angle [rad]").
//		MatrixRows(numeric.Values(time), theta).
//		Pointed().
//		Plot(numeric.Values(line)).
//		Name("Line").
//		Dashed().
//		Legend().
//		Show()
//
// Style, color and name calls apply to the most recently added series only.
package miniplot

import (
	"context"
	"fmt"
	"iter"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/raykavin/miniplot/pkg/core"
	"github.com/raykavin/miniplot/pkg/indicator"
	"github.com/raykavin/miniplot/pkg/logger"
	"github.com/raykavin/miniplot/pkg/numeric"
	"github.com/raykavin/miniplot/pkg/palette"
)

// MiniPlot accumulates series and chart options until it is rendered.
// It is not safe for concurrent use.
type MiniPlot struct {
	series  []core.Series
	options core.Options
	colors  *palette.Allocator

	// last indexes the series targeted by style calls, -1 while empty
	last int

	palette   palette.Palette
	renderer  core.Renderer
	log       logger.Logger
	finalized bool
}

// New creates an empty chart titled title
func New(title string, options ...Option) *MiniPlot {
	p := &MiniPlot{
		options: core.Options{Title: title},
		last:    -1,
		log:     DefaultLog,
	}

	for _, option := range options {
		option(p)
	}

	if p.log == nil {
		p.log = logger.Nop()
	}
	p.colors = palette.NewAllocator(p.palette)

	return p
}

// Len returns the number of series added so far
func (p *MiniPlot) Len() int {
	return len(p.series)
}

// Chart returns a deep copy of the chart built so far without finalizing it
func (p *MiniPlot) Chart() core.Chart {
	return core.Chart{Options: p.options, Series: p.series}.Clone()
}

// XLabel sets the x axis label
func (p *MiniPlot) XLabel(label string) *MiniPlot {
	if p.usable("XLabel") {
		p.options.XLabel = label
	}
	return p
}

// YLabel sets the y axis label
func (p *MiniPlot) YLabel(label string) *MiniPlot {
	if p.usable("YLabel") {
		p.options.YLabel = label
	}
	return p
}

// Legend shows the legend. There is no way to hide it again.
func (p *MiniPlot) Legend() *MiniPlot {
	if p.usable("Legend") {
		p.options.Legend = true
	}
	return p
}

// AspectRatio fixes the plot area width/height ratio. Ratios that are not
// finite and positive are ignored.
func (p *MiniPlot) AspectRatio(ratio float64) *MiniPlot {
	if !p.usable("AspectRatio") {
		return p
	}

	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		p.log.Debugf("ignoring aspect ratio %v", ratio)
		return p
	}

	p.options.AspectRatio = ratio
	return p
}

// SquareAspectRatio gives both axes the same scale, the same as AspectRatio(1)
func (p *MiniPlot) SquareAspectRatio() *MiniPlot {
	return p.AspectRatio(1)
}

// Plot adds a line whose x values are the indices of y
func (p *MiniPlot) Plot(y numeric.Adapter) *MiniPlot {
	if !p.usable("Plot") {
		return p
	}
	p.append(p.lineName(), numeric.Enumerate(numeric.Slice(y)))
	return p
}

// PlotXY adds a line through the element-wise pairs of x and y.
// When the lengths differ the extra values of the longer input are dropped.
func (p *MiniPlot) PlotXY(x, y numeric.Adapter) *MiniPlot {
	if !p.usable("PlotXY") {
		return p
	}

	xs, ys := numeric.Slice(x), numeric.Slice(y)
	if len(xs) != len(ys) {
		p.log.Debugf("PlotXY: x has %d values and y has %d, truncating", len(xs), len(ys))
	}
	p.append(p.lineName(), numeric.Zip(xs, ys))
	return p
}

// PlotPoints adds a line through the given points, which are copied
func (p *MiniPlot) PlotPoints(points []core.Point) *MiniPlot {
	if !p.usable("PlotPoints") {
		return p
	}
	p.append(p.lineName(), append([]core.Point{}, points...))
	return p
}

// PlotSeq adds a line through the (x, y) pairs yielded by seq
func (p *MiniPlot) PlotSeq(seq iter.Seq2[float64, float64]) *MiniPlot {
	if !p.usable("PlotSeq") {
		return p
	}

	points := make([]core.Point, 0)
	if seq != nil {
		for x, y := range seq {
			points = append(points, core.Point{X: x, Y: y})
		}
	}
	p.append(p.lineName(), points)
	return p
}

// MatrixRows adds one line per row of y, all sharing the x values.
// Rows are named "Row <r>" after their index in the matrix and each gets its own color.
func (p *MiniPlot) MatrixRows(x numeric.Adapter, y numeric.Matrix) *MiniPlot {
	if !p.usable("MatrixRows") {
		return p
	}

	xs := numeric.Slice(x)
	for r, row := range numeric.Rows(y) {
		if len(row) != len(xs) {
			p.log.Debugf("MatrixRows: row %d has %d values and x has %d, truncating", r, len(row), len(xs))
		}
		p.append(fmt.Sprintf("Row %d", r), numeric.Zip(xs, row))
	}
	return p
}

// Indicator adds a series derived from the last series, such as a moving
// average. It does nothing when no series was added yet.
func (p *MiniPlot) Indicator(ind indicator.Indicator) *MiniPlot {
	source := p.lastSeries("Indicator")
	if source == nil || ind == nil {
		return p
	}

	name := fmt.Sprintf("%s %s", source.Name, ind.Name())
	points := ind.Compute(source.Points)

	p.append(name, points)
	derived := &p.series[p.last]
	derived.Dashed = ind.Style() == core.Dashed
	derived.Dotted = ind.Style() == core.Dotted
	return p
}

// Dashed draws the last series with a dashed line
func (p *MiniPlot) Dashed() *MiniPlot {
	if s := p.lastSeries("Dashed"); s != nil {
		s.Dashed = true
	}
	return p
}

// Dotted draws the last series with a dotted line. Dashed takes precedence when both are set.
func (p *MiniPlot) Dotted() *MiniPlot {
	if s := p.lastSeries("Dotted"); s != nil {
		s.Dotted = true
	}
	return p
}

// Pointed also draws a marker at every point of the last series, useful for sparse data
func (p *MiniPlot) Pointed() *MiniPlot {
	if s := p.lastSeries("Pointed"); s != nil {
		s.Pointed = true
	}
	return p
}

// Color changes the color of the last series, it does nothing if no series was added yet
func (p *MiniPlot) Color(color core.Color) *MiniPlot {
	if s := p.lastSeries("Color"); s != nil {
		s.Color = color
	}
	return p
}

// Name changes the name of the last series, it does nothing if no series was added yet
func (p *MiniPlot) Name(name string) *MiniPlot {
	if s := p.lastSeries("Name"); s != nil {
		s.Name = name
	}
	return p
}

// Render finalizes the chart and hands it to r. The MiniPlot gives up its series
// and must not be used afterwards, a second call returns core.ErrFinalized.
func (p *MiniPlot) Render(ctx context.Context, r core.Renderer) error {
	if p.finalized {
		return core.ErrFinalized
	}
	if r == nil {
		return core.ErrNoRenderer
	}

	chart := core.Chart{Options: p.options, Series: p.series}
	p.finalized = true
	p.series = nil
	p.last = -1

	p.log.WithFields(map[string]any{
		"title":  chart.Options.Title,
		"series": len(chart.Series),
		"points": chart.Points(),
	}).Debug("rendering chart")

	if err := r.Render(ctx, chart); err != nil {
		return fmt.Errorf("render %q: %w", chart.Options.Title, err)
	}
	return nil
}

// Show renders the chart with the configured renderer, or DefaultRenderer, and
// blocks until the renderer returns or the process is interrupted.
func (p *MiniPlot) Show() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := p.renderer
	if r == nil {
		var err error
		if r, err = DefaultRenderer(); err != nil {
			return err
		}
	}
	return p.Render(ctx, r)
}

func (p *MiniPlot) append(name string, points []core.Point) {
	p.series = append(p.series, core.Series{
		Name:   name,
		Points: points,
		Color:  p.colors.Next(),
	})
	p.last = len(p.series) - 1
}

func (p *MiniPlot) lineName() string {
	return fmt.Sprintf("Line %d", len(p.series))
}

func (p *MiniPlot) lastSeries(call string) *core.Series {
	if !p.usable(call) {
		return nil
	}
	if p.last < 0 {
		p.log.Debugf("%s: no series to modify", call)
		return nil
	}
	return &p.series[p.last]
}

func (p *MiniPlot) usable(call string) bool {
	if p.finalized {
		p.log.Warnf("%s called on a rendered chart, ignoring", call)
		return false
	}
	return true
}

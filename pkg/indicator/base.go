// Package indicator derives new series from an existing one (moving averages, oscillators, bands).
package indicator

import "github.com/raykavin/miniplot/pkg/core"

// Indicator computes a derived series from the points of a source series
type Indicator interface {
	// Name returns the label used for the derived series
	Name() string

	// Style returns the line style of the derived series
	Style() core.LineStyle

	// Warmup returns how many leading points are consumed before the first output
	Warmup() int

	// Compute returns the derived points, x coordinates are taken from the source
	Compute(points []core.Point) []core.Point
}

// BaseIndicator provides common functionality for all indicators
type BaseIndicator struct {
	Period    int
	LineStyle core.LineStyle
}

// Style returns the configured line style
func (b BaseIndicator) Style() core.LineStyle {
	return b.LineStyle
}

// split separates a point list into x and y slices
func split(points []core.Point) ([]float64, []float64) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

// enoughData reports whether a talib function with the given lookback can run on n values
func enoughData(n, period, lookback int) bool {
	return period > 0 && n > lookback
}

// trim drops the warmup values and rebuilds points against the source x values
func trim(xs, values []float64, warmup int) []core.Point {
	if warmup >= len(values) {
		return []core.Point{}
	}

	points := make([]core.Point, 0, len(values)-warmup)
	for i := warmup; i < len(values); i++ {
		points = append(points, core.Point{X: xs[i], Y: values[i]})
	}
	return points
}

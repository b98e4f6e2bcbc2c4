package core

import "math"

// Options holds the chart level configuration
type Options struct {
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Legend bool   `json:"legend"`

	// AspectRatio is width/height of the plot area, zero means automatic
	AspectRatio float64 `json:"aspect_ratio,omitempty"`
}

// HasAspectRatio reports whether a fixed aspect ratio was requested
func (o Options) HasAspectRatio() bool {
	return o.AspectRatio > 0
}

// Chart is a finalized chart, ready to be drawn
type Chart struct {
	Options Options  `json:"options"`
	Series  []Series `json:"series"`
}

// Clone returns a deep copy of the chart
func (c Chart) Clone() Chart {
	clone := Chart{Options: c.Options, Series: make([]Series, len(c.Series))}
	for i, s := range c.Series {
		clone.Series[i] = s.Clone()
	}
	return clone
}

// Points returns the total number of points over all series
func (c Chart) Points() int {
	total := 0
	for _, s := range c.Series {
		total += s.Len()
	}
	return total
}

// Extent is the bounding box of the chart data
type Extent struct {
	MinX, MaxX float64
	MinY, MaxY float64
	empty      bool
}

// Empty reports whether the extent was computed from zero finite points
func (e Extent) Empty() bool {
	return e.empty
}

// Width returns MaxX - MinX
func (e Extent) Width() float64 {
	return e.MaxX - e.MinX
}

// Height returns MaxY - MinY
func (e Extent) Height() float64 {
	return e.MaxY - e.MinY
}

// Extent computes the data bounds over all series. Non finite values are skipped.
// Degenerate ranges are widened so that Width and Height are never zero.
func (c Chart) Extent() Extent {
	e := Extent{
		MinX: math.Inf(1), MaxX: math.Inf(-1),
		MinY: math.Inf(1), MaxY: math.Inf(-1),
	}

	for _, s := range c.Series {
		for _, p := range s.Points {
			if !finite(p.X) || !finite(p.Y) {
				continue
			}
			e.MinX = math.Min(e.MinX, p.X)
			e.MaxX = math.Max(e.MaxX, p.X)
			e.MinY = math.Min(e.MinY, p.Y)
			e.MaxY = math.Max(e.MaxY, p.Y)
		}
	}

	if math.IsInf(e.MinX, 1) {
		return Extent{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1, empty: true}
	}

	e.MinX, e.MaxX = widen(e.MinX, e.MaxX)
	e.MinY, e.MaxY = widen(e.MinY, e.MaxY)
	return e
}

func widen(lo, hi float64) (float64, float64) {
	if hi > lo {
		return lo, hi
	}
	pad := math.Abs(lo) * 0.5
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

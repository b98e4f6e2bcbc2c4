package miniplot

import (
	"github.com/raykavin/miniplot/pkg/core"
	"github.com/raykavin/miniplot/pkg/logger"
	"github.com/raykavin/miniplot/pkg/palette"
)

// Option is a functional option for configuring a MiniPlot instance
type Option func(*MiniPlot)

// WithLogger sets the logger used to report ignored calls, by default DefaultLog
func WithLogger(log logger.Logger) Option {
	return func(p *MiniPlot) {
		p.log = log
	}
}

// WithRenderer sets the renderer used by Show
func WithRenderer(r core.Renderer) Option {
	return func(p *MiniPlot) {
		p.renderer = r
	}
}

// WithPalette replaces the palette series colors are drawn from
func WithPalette(colors palette.Palette) Option {
	return func(p *MiniPlot) {
		p.palette = colors
	}
}

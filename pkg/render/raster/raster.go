// Package raster draws charts into PNG images with the gg software renderer.
package raster

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/raykavin/miniplot/pkg/core"
	"github.com/raykavin/miniplot/pkg/logger"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 768

	markerRadius = 4.0
	lineWidth    = 2.0
	tickTarget   = 8
)

var (
	dashPattern = []float64{10, 6}
	dotPattern  = []float64{2, 4}

	gridColor = core.Color{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	axisColor = core.Color{R: 0x44, G: 0x44, B: 0x44, A: 0xff}

	fontSource = sync.OnceValues(func() (*text.FontSource, error) {
		return text.NewFontSource(goregular.TTF)
	})
)

// Rasterizer renders charts to PNG
type Rasterizer struct {
	width      int
	height     int
	output     string
	writer     io.Writer
	background core.Color
	log        logger.Logger
}

// Option configures a Rasterizer
type Option func(*Rasterizer)

// WithSize sets the image size in pixels
func WithSize(width, height int) Option {
	return func(r *Rasterizer) {
		if width > 0 && height > 0 {
			r.width, r.height = width, height
		}
	}
}

// WithOutput writes the image to the file at path
func WithOutput(path string) Option {
	return func(r *Rasterizer) {
		r.output = path
	}
}

// WithWriter writes the image to w instead of a file
func WithWriter(w io.Writer) Option {
	return func(r *Rasterizer) {
		r.writer = w
	}
}

// WithBackground sets the canvas color, white by default
func WithBackground(color core.Color) Option {
	return func(r *Rasterizer) {
		r.background = color
	}
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(r *Rasterizer) {
		r.log = log
	}
}

// New creates a Rasterizer writing chart.png by default
func New(options ...Option) *Rasterizer {
	r := &Rasterizer{
		width:      DefaultWidth,
		height:     DefaultHeight,
		output:     "chart.png",
		background: core.White,
		log:        logger.Nop(),
	}

	for _, option := range options {
		option(r)
	}
	return r
}

// Size returns the image size in pixels
func (r *Rasterizer) Size() (int, int) {
	return r.width, r.height
}

// Render draws the chart and writes it to the configured writer or output file
func (r *Rasterizer) Render(ctx context.Context, chart core.Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.writer != nil {
		return r.Encode(r.writer, chart)
	}

	file, err := os.Create(r.output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.output, err)
	}

	if err := r.Encode(file, chart); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return err
	}

	r.log.WithField("file", r.output).Info("chart saved")
	return nil
}

// Encode draws the chart and writes it to w as PNG
func (r *Rasterizer) Encode(w io.Writer, chart core.Chart) error {
	dc, err := r.Draw(chart)
	if err != nil {
		return err
	}
	defer dc.Close()

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Draw paints the chart on a new context, the caller must close it
func (r *Rasterizer) Draw(chart core.Chart) (*gg.Context, error) {
	source, err := fontSource()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	dc := gg.NewContext(r.width, r.height)
	dc.ClearWithColor(gg.FromColor(r.background))

	p := painter{
		dc:     dc,
		chart:  chart,
		small:  source.Face(12),
		normal: source.Face(14),
		title:  source.Face(20),
	}
	p.layout(float64(r.width), float64(r.height))

	steps := []func() error{p.drawGrid, p.drawSeries, p.drawLegend}
	p.drawLabels()
	for _, step := range steps {
		if err := step(); err != nil {
			dc.Close()
			return nil, err
		}
	}

	r.log.WithFields(map[string]any{
		"title":  chart.Options.Title,
		"series": len(chart.Series),
	}).Debug("chart rasterized")

	return dc, nil
}

// painter holds the state of a single Draw call
type painter struct {
	dc    *gg.Context
	chart core.Chart

	small, normal, title text.Face

	// plot area in pixels
	left, top, right, bottom float64
	x, y                     axis
}

func (p *painter) layout(width, height float64) {
	const (
		marginLeft   = 80.0
		marginRight  = 30.0
		marginTop    = 60.0
		marginBottom = 70.0
	)

	p.left, p.top = marginLeft, marginTop
	p.right, p.bottom = width-marginRight, height-marginBottom

	if ratio := p.chart.Options.AspectRatio; p.chart.Options.HasAspectRatio() {
		w, h := p.right-p.left, p.bottom-p.top
		if w/h > ratio {
			shrink := (w - h*ratio) / 2
			p.left += shrink
			p.right -= shrink
		} else {
			shrink := (h - w/ratio) / 2
			p.top += shrink
			p.bottom -= shrink
		}
	}

	extent := p.chart.Extent()
	p.x = niceAxis(extent.MinX, extent.MaxX, tickTarget)
	p.y = niceAxis(extent.MinY, extent.MaxY, tickTarget)
}

func (p *painter) px(x float64) float64 {
	return p.x.scale(x, p.left, p.right)
}

func (p *painter) py(y float64) float64 {
	return p.y.scale(y, p.bottom, p.top)
}

func (p *painter) drawGrid() error {
	dc := p.dc
	dc.SetFont(p.small)
	dc.SetLineWidth(1)
	dc.ClearDash()

	for _, v := range p.x.ticks() {
		x := p.px(v)
		dc.SetColor(gridColor)
		dc.MoveTo(x, p.top)
		dc.LineTo(x, p.bottom)
		if err := dc.Stroke(); err != nil {
			return err
		}
		dc.SetColor(axisColor)
		dc.DrawStringAnchored(p.x.label(v), x, p.bottom+18, 0.5, 0)
	}

	for _, v := range p.y.ticks() {
		y := p.py(v)
		dc.SetColor(gridColor)
		dc.MoveTo(p.left, y)
		dc.LineTo(p.right, y)
		if err := dc.Stroke(); err != nil {
			return err
		}
		dc.SetColor(axisColor)
		dc.DrawStringAnchored(p.y.label(v), p.left-8, y+4, 1, 0)
	}

	dc.SetColor(axisColor)
	dc.DrawRectangle(p.left, p.top, p.right-p.left, p.bottom-p.top)
	return dc.Stroke()
}

func (p *painter) drawLabels() {
	dc := p.dc
	options := p.chart.Options
	dc.SetColor(core.Black)

	if options.Title != "" {
		dc.SetFont(p.title)
		dc.DrawStringAnchored(options.Title, (p.left+p.right)/2, p.top-28, 0.5, 0)
	}

	dc.SetFont(p.normal)
	if options.XLabel != "" {
		dc.DrawStringAnchored(options.XLabel, (p.left+p.right)/2, p.bottom+48, 0.5, 0)
	}
	if options.YLabel != "" {
		dc.DrawStringAnchored(options.YLabel, p.left, p.top-8, 0, 0)
	}
}

func (p *painter) drawSeries() error {
	dc := p.dc
	dc.SetLineWidth(lineWidth)

	for _, series := range p.chart.Series {
		dc.SetColor(series.Color)
		setStyle(dc, series.Style())

		drawing := false
		for _, point := range series.Points {
			if !finite(point) {
				drawing = false
				continue
			}
			if drawing {
				dc.LineTo(p.px(point.X), p.py(point.Y))
			} else {
				dc.MoveTo(p.px(point.X), p.py(point.Y))
				drawing = true
			}
		}
		if err := dc.Stroke(); err != nil {
			return fmt.Errorf("failed to stroke %q: %w", series.Name, err)
		}

		if !series.Pointed && series.Len() != 1 {
			continue
		}

		for _, point := range series.Points {
			if finite(point) {
				dc.DrawCircle(p.px(point.X), p.py(point.Y), markerRadius)
			}
		}
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("failed to fill markers of %q: %w", series.Name, err)
		}
	}

	dc.ClearDash()
	return nil
}

func (p *painter) drawLegend() error {
	if !p.chart.Options.Legend || len(p.chart.Series) == 0 {
		return nil
	}

	const (
		padding    = 8.0
		rowHeight  = 20.0
		sampleSize = 28.0
	)

	dc := p.dc
	dc.SetFont(p.normal)

	var textWidth float64
	for _, series := range p.chart.Series {
		w, _ := dc.MeasureString(series.Name)
		textWidth = math.Max(textWidth, w)
	}

	width := padding*3 + sampleSize + textWidth
	height := padding*2 + rowHeight*float64(len(p.chart.Series))
	x := p.right - width - padding
	y := p.top + padding

	dc.ClearDash()
	dc.SetColor(core.Color{R: 0xff, G: 0xff, B: 0xff, A: 0xe6})
	dc.DrawRectangle(x, y, width, height)
	if err := dc.Fill(); err != nil {
		return err
	}
	dc.SetLineWidth(1)
	dc.SetColor(axisColor)
	dc.DrawRectangle(x, y, width, height)
	if err := dc.Stroke(); err != nil {
		return err
	}

	dc.SetLineWidth(lineWidth)
	for i, series := range p.chart.Series {
		rowY := y + padding + rowHeight*float64(i) + rowHeight/2
		sampleX := x + padding

		dc.SetColor(series.Color)
		setStyle(dc, series.Style())
		dc.MoveTo(sampleX, rowY)
		dc.LineTo(sampleX+sampleSize, rowY)
		if err := dc.Stroke(); err != nil {
			return err
		}
		dc.ClearDash()

		if series.Pointed {
			dc.DrawCircle(sampleX+sampleSize/2, rowY, markerRadius)
			if err := dc.Fill(); err != nil {
				return err
			}
		}

		dc.SetColor(core.Black)
		dc.DrawStringAnchored(series.Name, sampleX+sampleSize+padding, rowY+5, 0, 0)
	}
	return nil
}

func setStyle(dc *gg.Context, style core.LineStyle) {
	switch style {
	case core.Dashed:
		dc.SetDash(dashPattern...)
	case core.Dotted:
		dc.SetDash(dotPattern...)
	default:
		dc.ClearDash()
	}
}

func finite(p core.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

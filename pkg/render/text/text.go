// Package text prints a chart as a terminal summary: one table row per series
// and optional histograms of the y values.
package text

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/miniplot/pkg/core"
	"github.com/raykavin/miniplot/pkg/logger"
	"github.com/raykavin/miniplot/pkg/metric"
	"github.com/samber/lo"
)

const histogramWidth = 40

// Renderer writes chart summaries
type Renderer struct {
	writer     io.Writer
	bins       int
	rounds     int
	confidence float64
	log        logger.Logger
}

// Option configures a Renderer
type Option func(*Renderer)

// WithWriter sets the destination, os.Stdout by default
func WithWriter(w io.Writer) Option {
	return func(r *Renderer) {
		r.writer = w
	}
}

// WithHistograms prints a histogram of the y values of each series using bins buckets
func WithHistograms(bins int) Option {
	return func(r *Renderer) {
		r.bins = bins
	}
}

// WithConfidence prints a bootstrap confidence interval of the mean of each
// series, resampling rounds times
func WithConfidence(rounds int, confidence float64) Option {
	return func(r *Renderer) {
		r.rounds = rounds
		r.confidence = confidence
	}
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(r *Renderer) {
		r.log = log
	}
}

// New creates a text Renderer
func New(options ...Option) *Renderer {
	r := &Renderer{
		writer: os.Stdout,
		log:    logger.Nop(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Render writes the summary of chart
func (r *Renderer) Render(ctx context.Context, chart core.Chart) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buffer := bytes.NewBuffer(nil)
	r.header(buffer, chart.Options)
	r.table(buffer, chart)

	if r.bins > 0 {
		if err := r.histograms(buffer, chart); err != nil {
			return err
		}
	}
	if r.rounds > 0 {
		r.intervals(buffer, chart)
	}

	_, err := r.writer.Write(buffer.Bytes())
	return err
}

func (r *Renderer) header(w io.Writer, options core.Options) {
	fmt.Fprintf(w, "%s\n", options.Title)
	if options.XLabel != "" || options.YLabel != "" {
		fmt.Fprintf(w, "x: %s  y: %s\n", options.XLabel, options.YLabel)
	}
	if options.HasAspectRatio() {
		fmt.Fprintf(w, "aspect ratio: %s\n", strconv.FormatFloat(options.AspectRatio, 'g', 4, 64))
	}
}

func (r *Renderer) table(w io.Writer, chart core.Chart) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Name", "Color", "Style", "Markers", "Points", "X Range", "Y Range", "Mean", "StdDev"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoWrapText(false)

	for i, series := range chart.Series {
		xs, ys := metric.Summarize(series.Xs()), metric.Summarize(series.Ys())
		table.Append([]string{
			strconv.Itoa(i),
			series.Name,
			series.Color.Hex(),
			series.Style().String(),
			lo.Ternary(series.Pointed, "yes", "no"),
			strconv.Itoa(series.Len()),
			span(xs),
			span(ys),
			number(ys.Mean, ys.Count),
			number(ys.StdDev, ys.Count),
		})
	}

	table.SetFooter([]string{
		"", "", "", "", "TOTAL",
		strconv.Itoa(chart.Points()),
		"", "", "", "",
	})
	table.Render()
}

func (r *Renderer) histograms(w io.Writer, chart core.Chart) error {
	for _, series := range chart.Series {
		values := lo.Filter(series.Ys(), func(v float64, _ int) bool {
			return !math.IsNaN(v) && !math.IsInf(v, 0)
		})
		if len(values) == 0 {
			r.log.Debugf("skipping histogram of %q, no finite values", series.Name)
			continue
		}

		fmt.Fprintf(w, "------ %s -------\n", series.Name)
		hist := histogram.Hist(r.bins, values)
		if err := histogram.Fprint(w, hist, histogram.Linear(histogramWidth)); err != nil {
			return fmt.Errorf("failed to print histogram of %q: %w", series.Name, err)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (r *Renderer) intervals(w io.Writer, chart core.Chart) {
	fmt.Fprintf(w, "------ CONFIDENCE INTERVAL (%.0f%%) -------\n", r.confidence*100)
	for _, series := range chart.Series {
		interval := metric.Bootstrap(series.Ys(), metric.Mean, r.rounds, r.confidence)
		fmt.Fprintf(w, "%s: %.4g (%.4g ~ %.4g)\n", series.Name, interval.Mean, interval.Lower, interval.Upper)
	}
}

func span(s metric.Summary) string {
	if s.Count == 0 {
		return "-"
	}
	return fmt.Sprintf("%.4g .. %.4g", s.Min, s.Max)
}

func number(v float64, count int) string {
	if count == 0 {
		return "-"
	}
	return fmt.Sprintf("%.4g", v)
}

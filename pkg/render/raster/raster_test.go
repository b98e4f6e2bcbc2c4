package raster

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/raykavin/miniplot/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChart() core.Chart {
	return core.Chart{
		Options: core.Options{Title: "Sample", XLabel: "x", YLabel: "y", Legend: true},
		Series: []core.Series{
			{
				Name:   "Line 0",
				Color:  core.Red,
				Points: []core.Point{{X: 0, Y: 1}, {X: 1, Y: 4}, {X: 2, Y: 9}},
			},
			{
				Name:    "Line 1",
				Color:   core.Blue,
				Dashed:  true,
				Pointed: true,
				Points:  []core.Point{{X: 0, Y: 2}, {X: 1, Y: 3}, {X: 2, Y: 5}},
			},
			{
				Name:   "Line 2",
				Color:  core.Green,
				Dotted: true,
				Points: []core.Point{{X: 0.5, Y: 6}},
			},
		},
	}
}

func TestRasterizer_Encode(t *testing.T) {
	tests := []struct {
		name          string
		options       []Option
		chart         core.Chart
		width, height int
	}{
		{
			name:   "default size",
			chart:  sampleChart(),
			width:  DefaultWidth,
			height: DefaultHeight,
		},
		{
			name:    "custom size",
			options: []Option{WithSize(320, 200)},
			chart:   sampleChart(),
			width:   320,
			height:  200,
		},
		{
			name:    "empty chart",
			options: []Option{WithSize(200, 100)},
			chart:   core.Chart{Options: core.Options{Title: "Empty", Legend: true}},
			width:   200,
			height:  100,
		},
		{
			name:    "square aspect ratio",
			options: []Option{WithSize(400, 300), WithBackground(core.Gray)},
			chart: func() core.Chart {
				c := sampleChart()
				c.Options.AspectRatio = 1
				return c
			}(),
			width:  400,
			height: 300,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, New(tc.options...).Encode(&buf, tc.chart))

			img, err := png.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, tc.width, img.Bounds().Dx())
			assert.Equal(t, tc.height, img.Bounds().Dy())
		})
	}
}

func TestRasterizer_Render(t *testing.T) {
	t.Run("writer", func(t *testing.T) {
		var buf bytes.Buffer
		r := New(WithSize(100, 80), WithWriter(&buf))
		require.NoError(t, r.Render(context.Background(), sampleChart()))
		assert.NotZero(t, buf.Len())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.png")
		r := New(WithSize(100, 80), WithOutput(path))
		require.NoError(t, r.Render(context.Background(), sampleChart()))

		file, err := os.Open(path)
		require.NoError(t, err)
		defer file.Close()

		cfg, err := png.DecodeConfig(file)
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Width)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := New(WithWriter(&bytes.Buffer{})).Render(ctx, sampleChart())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNiceAxis(t *testing.T) {
	tests := []struct {
		lo, hi         float64
		min, max, step float64
	}{
		{lo: 0, hi: 9, min: 0, max: 9, step: 1},
		{lo: 0, hi: 1, min: 0, max: 1, step: 0.1},
		{lo: -3, hi: 97, min: -10, max: 100, step: 10},
	}

	for _, tc := range tests {
		a := niceAxis(tc.lo, tc.hi, tickTarget)
		assert.InDelta(t, tc.min, a.min, 1e-9)
		assert.InDelta(t, tc.max, a.max, 1e-9)
		assert.InDelta(t, tc.step, a.step, 1e-9)
		assert.Equal(t, a.min, a.ticks()[0])
	}

	a := niceAxis(0, 1, tickTarget)
	assert.Equal(t, "0.4", a.label(0.4))
	assert.Equal(t, "0", a.label(1e-17))
	assert.Equal(t, "0", a.label(-1e-17))
	assert.Equal(t, "1.0", a.label(1))

	a = niceAxis(-3, 97, tickTarget)
	assert.Equal(t, "0", a.label(0))
	assert.Equal(t, "-10", a.label(-10))
	assert.Equal(t, 10.0, a.scale(0.5, 0, 20))
}

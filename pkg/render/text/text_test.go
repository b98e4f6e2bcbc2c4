package text

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/raykavin/miniplot/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChart() core.Chart {
	return core.Chart{
		Options: core.Options{Title: "Squares", XLabel: "n", YLabel: "n²", AspectRatio: 1},
		Series: []core.Series{
			{Name: "Line 0", Color: core.Red, Pointed: true, Points: []core.Point{{X: 0, Y: 1}, {X: 1, Y: 4}, {X: 2, Y: 9}}},
			{Name: "Line 1", Color: core.Blue, Dashed: true, Points: []core.Point{{X: 0, Y: math.NaN()}}},
		},
	}
}

func TestRenderer_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(WithWriter(&buf)).Render(context.Background(), sampleChart()))

	out := buf.String()
	assert.Contains(t, out, "Squares")
	assert.Contains(t, out, "aspect ratio: 1")
	assert.Contains(t, out, "Line 0")
	assert.Contains(t, out, "Line 1")
	assert.Contains(t, out, core.Red.Hex())
	assert.Contains(t, out, "dashed")
	assert.Contains(t, out, "0 .. 2")
	assert.Contains(t, out, "4.667")
	assert.NotContains(t, out, "CONFIDENCE")
}

func TestRenderer_Extras(t *testing.T) {
	var buf bytes.Buffer
	r := New(WithWriter(&buf), WithHistograms(3), WithConfidence(100, 0.95))
	require.NoError(t, r.Render(context.Background(), sampleChart()))

	out := buf.String()
	assert.Contains(t, out, "------ Line 0 -------")
	assert.NotContains(t, out, "------ Line 1 -------")
	assert.Contains(t, out, "CONFIDENCE INTERVAL (95%)")
}

func TestRenderer_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(WithWriter(&buf), WithHistograms(5)).Render(context.Background(), core.Chart{}))
	assert.Contains(t, buf.String(), "TOTAL")
}

package metric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Summary
	}{
		{
			name:   "empty",
			values: nil,
			want:   Summary{},
		},
		{
			name:   "single",
			values: []float64{3},
			want:   Summary{Count: 1, Min: 3, Max: 3, Mean: 3, Median: 3},
		},
		{
			name:   "unsorted with nan",
			values: []float64{9, math.NaN(), 1, 4, math.Inf(1)},
			want:   Summary{Count: 3, Min: 1, Max: 9, Mean: 14.0 / 3, StdDev: math.Sqrt(49.0 / 3), Median: 4},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize(tc.values)
			assert.Equal(t, tc.want.Count, got.Count)
			assert.InDelta(t, tc.want.Min, got.Min, 1e-9)
			assert.InDelta(t, tc.want.Max, got.Max, 1e-9)
			assert.InDelta(t, tc.want.Mean, got.Mean, 1e-9)
			assert.InDelta(t, tc.want.StdDev, got.StdDev, 1e-9)
			assert.InDelta(t, tc.want.Median, got.Median, 1e-9)
		})
	}
}

func TestSummarize_DoesNotModifyInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)
	require.Equal(t, []float64{3, 1, 2}, values)
}

func TestBootstrap(t *testing.T) {
	t.Run("constant sample", func(t *testing.T) {
		got := Bootstrap([]float64{2, 2, 2, 2}, Mean, 50, 0.95)
		assert.InDelta(t, 2, got.Lower, 1e-9)
		assert.InDelta(t, 2, got.Upper, 1e-9)
		assert.InDelta(t, 2, got.Mean, 1e-9)
		assert.InDelta(t, 0, got.StdDev, 1e-9)
	})

	t.Run("bounds contain the mean", func(t *testing.T) {
		values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		got := Bootstrap(values, Mean, 200, 0.9)
		assert.LessOrEqual(t, got.Lower, got.Mean)
		assert.GreaterOrEqual(t, got.Upper, got.Mean)
		assert.GreaterOrEqual(t, got.Lower, 1.0)
		assert.LessOrEqual(t, got.Upper, 10.0)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Interval{}, Bootstrap(nil, Mean, 10, 0.95))
	})
}

func TestMean(t *testing.T) {
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-9)
	assert.True(t, math.IsNaN(Mean(nil)))
}

// Package metric computes descriptive statistics of series values.
package metric

import (
	"math"
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of a set of values
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Median float64
}

// Summarize computes a Summary ignoring NaN and infinite values.
// The zero Summary is returned when no finite value remains.
func Summarize(values []float64) Summary {
	data := finite(values)
	if len(data) == 0 {
		return Summary{}
	}

	slices.Sort(data)
	mean, stdDev := stat.MeanStdDev(data, nil)
	if len(data) == 1 {
		stdDev = 0
	}

	return Summary{
		Count:  len(data),
		Min:    data[0],
		Max:    data[len(data)-1],
		Mean:   mean,
		StdDev: stdDev,
		Median: stat.Quantile(0.5, stat.Empirical, data, nil),
	}
}

// Mean returns the arithmetic mean of the finite values, it can be used as a Bootstrap measure
func Mean(values []float64) float64 {
	data := finite(values)
	if len(data) == 0 {
		return math.NaN()
	}
	return stat.Mean(data, nil)
}

func finite(values []float64) []float64 {
	return lo.Filter(values, func(v float64, _ int) bool {
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	})
}

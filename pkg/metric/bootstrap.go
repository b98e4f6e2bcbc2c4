package metric

import (
	"slices"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Interval is a bootstrap confidence interval of a measure
type Interval struct {
	Lower  float64
	Upper  float64
	Mean   float64
	StdDev float64
}

// Bootstrap estimates a confidence interval of measure by resampling values with
// replacement rounds times. confidence is a fraction, 0.95 for a 95% interval.
func Bootstrap(values []float64, measure func([]float64) float64, rounds int, confidence float64) Interval {
	if len(values) == 0 || rounds <= 0 {
		return Interval{}
	}

	estimates := resample(values, measure, rounds)
	slices.Sort(estimates)

	tail := 1 - confidence
	mean, stdDev := stat.MeanStdDev(estimates, nil)
	if rounds == 1 {
		stdDev = 0
	}

	return Interval{
		Lower:  stat.Quantile(tail/2, stat.LinInterp, estimates, nil),
		Upper:  stat.Quantile(1-tail/2, stat.LinInterp, estimates, nil),
		Mean:   mean,
		StdDev: stdDev,
	}
}

func resample(values []float64, measure func([]float64) float64, rounds int) []float64 {
	estimates := make([]float64, 0, rounds)
	sample := make([]float64, len(values))

	for range rounds {
		for i := range sample {
			sample[i] = lo.Sample(values)
		}
		estimates = append(estimates, measure(sample))
	}
	return estimates
}

package raster

import (
	"math"
	"strconv"
)

// axis maps data values onto a pixel range using nice tick boundaries
type axis struct {
	min, max, step float64
}

// niceAxis widens [lo, hi] to multiples of a 1, 2 or 5 based step so that
// roughly target ticks fit in the range
func niceAxis(lo, hi float64, target int) axis {
	if target < 2 {
		target = 2
	}

	span := niceNumber(hi-lo, false)
	step := niceNumber(span/float64(target-1), true)

	return axis{
		min:  math.Floor(lo/step) * step,
		max:  math.Ceil(hi/step) * step,
		step: step,
	}
}

func niceNumber(x float64, round bool) float64 {
	if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 1
	}

	exp := math.Floor(math.Log10(x))
	frac := x / math.Pow(10, exp)

	var nice float64
	switch {
	case round && frac < 1.5:
		nice = 1
	case round && frac < 3:
		nice = 2
	case round && frac < 7:
		nice = 5
	case round:
		nice = 10
	case frac <= 1:
		nice = 1
	case frac <= 2:
		nice = 2
	case frac <= 5:
		nice = 5
	default:
		nice = 10
	}
	return nice * math.Pow(10, exp)
}

// ticks returns the tick values from min to max inclusive
func (a axis) ticks() []float64 {
	n := int(math.Round((a.max-a.min)/a.step)) + 1
	values := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		values = append(values, a.min+float64(i)*a.step)
	}
	return values
}

// scale maps v in [min, max] onto [from, to]
func (a axis) scale(v, from, to float64) float64 {
	if a.max == a.min {
		return from
	}
	return from + (v-a.min)/(a.max-a.min)*(to-from)
}

// label formats a tick with just enough decimals for the step
func (a axis) label(v float64) string {
	decimals := 0
	if a.step < 1 {
		decimals = int(math.Ceil(-math.Log10(a.step) - 1e-9))
	}
	if math.Abs(v) < a.step/2 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

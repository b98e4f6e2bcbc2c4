package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/miniplot/pkg/core"
)

// Band selects which Bollinger line an indicator produces
type Band int

const (
	UpperBand Band = iota
	MiddleBand
	LowerBand
)

// BollingerBands creates one band of a Bollinger envelope, deviation is the
// number of standard deviations between the middle and the outer bands
func BollingerBands(period int, deviation float64, band Band) Indicator {
	return &bollinger{
		BaseIndicator: BaseIndicator{Period: period, LineStyle: core.Dotted},
		Deviation:     deviation,
		Band:          band,
	}
}

type bollinger struct {
	BaseIndicator
	Deviation float64
	Band      Band
}

func (b bollinger) Name() string {
	names := map[Band]string{UpperBand: "upper", MiddleBand: "middle", LowerBand: "lower"}
	return fmt.Sprintf("BB(%d, %.1f) %s", b.Period, b.Deviation, names[b.Band])
}

func (b bollinger) Warmup() int {
	return b.Period - 1
}

func (b bollinger) Compute(points []core.Point) []core.Point {
	if !enoughData(len(points), b.Period, b.Warmup()) {
		return []core.Point{}
	}

	xs, ys := split(points)
	upper, middle, lower := talib.BBands(ys, b.Period, b.Deviation, b.Deviation, talib.SMA)

	switch b.Band {
	case UpperBand:
		return trim(xs, upper, b.Warmup())
	case LowerBand:
		return trim(xs, lower, b.Warmup())
	default:
		return trim(xs, middle, b.Warmup())
	}
}

package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/miniplot/pkg/core"
)

// RSI creates a Relative Strength Index over period values, drawn dotted
func RSI(period int) Indicator {
	return &rsi{BaseIndicator{Period: period, LineStyle: core.Dotted}}
}

type rsi struct {
	BaseIndicator
}

func (r rsi) Name() string {
	return fmt.Sprintf("RSI(%d)", r.Period)
}

func (r rsi) Warmup() int {
	return r.Period
}

func (r rsi) Compute(points []core.Point) []core.Point {
	if r.Period < 2 || !enoughData(len(points), r.Period, r.Warmup()) {
		return []core.Point{}
	}
	xs, ys := split(points)
	return trim(xs, talib.Rsi(ys, r.Period), r.Warmup())
}

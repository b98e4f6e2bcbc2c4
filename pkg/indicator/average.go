package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/miniplot/pkg/core"
)

// SMA creates a Simple Moving Average over period values, drawn dashed
func SMA(period int) Indicator {
	return &sma{BaseIndicator{Period: period, LineStyle: core.Dashed}}
}

type sma struct {
	BaseIndicator
}

func (s sma) Name() string {
	return fmt.Sprintf("SMA(%d)", s.Period)
}

func (s sma) Warmup() int {
	return s.Period - 1
}

func (s sma) Compute(points []core.Point) []core.Point {
	if !enoughData(len(points), s.Period, s.Warmup()) {
		return []core.Point{}
	}
	xs, ys := split(points)
	return trim(xs, talib.Sma(ys, s.Period), s.Warmup())
}

// EMA creates an Exponential Moving Average over period values, drawn dashed
func EMA(period int) Indicator {
	return &ema{BaseIndicator{Period: period, LineStyle: core.Dashed}}
}

type ema struct {
	BaseIndicator
}

func (e ema) Name() string {
	return fmt.Sprintf("EMA(%d)", e.Period)
}

func (e ema) Warmup() int {
	return e.Period - 1
}

func (e ema) Compute(points []core.Point) []core.Point {
	if !enoughData(len(points), e.Period, e.Warmup()) {
		return []core.Point{}
	}
	xs, ys := split(points)
	return trim(xs, talib.Ema(ys, e.Period), e.Warmup())
}

package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/miniplot/pkg/core"
)

// MACDLine selects which of the three MACD outputs an indicator produces
type MACDLine int

const (
	MACDMain MACDLine = iota
	MACDSignal
	MACDHistogram
)

// MACD creates a Moving Average Convergence Divergence indicator
// fast: the fast period
// slow: the slow period
// signal: the signal period
// line: which output is drawn
func MACD(fast, slow, signal int, line MACDLine) Indicator {
	return &macd{
		BaseIndicator: BaseIndicator{Period: slow, LineStyle: core.Solid},
		Fast:          fast,
		Signal:        signal,
		Line:          line,
	}
}

type macd struct {
	BaseIndicator
	Fast   int
	Signal int
	Line   MACDLine
}

func (m macd) Name() string {
	names := map[MACDLine]string{MACDMain: "", MACDSignal: " signal", MACDHistogram: " hist"}
	return fmt.Sprintf("MACD(%d, %d, %d)%s", m.Fast, m.Period, m.Signal, names[m.Line])
}

// Warmup covers the slow average plus the signal average
func (m macd) Warmup() int {
	return m.Period + m.Signal
}

func (m macd) Compute(points []core.Point) []core.Point {
	if m.Fast < 2 || m.Signal < 1 || !enoughData(len(points), m.Period, m.Warmup()) {
		return []core.Point{}
	}

	xs, ys := split(points)
	main, signal, hist := talib.Macd(ys, m.Fast, m.Period, m.Signal)

	switch m.Line {
	case MACDSignal:
		return trim(xs, signal, m.Warmup())
	case MACDHistogram:
		return trim(xs, hist, m.Warmup())
	default:
		return trim(xs, main, m.Warmup())
	}
}

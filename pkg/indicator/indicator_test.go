package indicator

import (
	"testing"

	"github.com/raykavin/miniplot/pkg/core"
	"github.com/stretchr/testify/require"
)

func ramp(n int) []core.Point {
	points := make([]core.Point, n)
	for i := range points {
		points[i] = core.Point{X: float64(i) * 10, Y: float64(i + 1)}
	}
	return points
}

func TestSMA(t *testing.T) {
	ind := SMA(3)
	require.Equal(t, "SMA(3)", ind.Name())
	require.Equal(t, core.Dashed, ind.Style())

	got := ind.Compute(ramp(5))
	require.Equal(t, []core.Point{{X: 20, Y: 2}, {X: 30, Y: 3}, {X: 40, Y: 4}}, got)
}

func TestEMA(t *testing.T) {
	got := EMA(3).Compute(ramp(5))
	require.Len(t, got, 3)
	require.InDelta(t, 2.0, got[0].Y, 1e-9)
	require.InDelta(t, 3.0, got[1].Y, 1e-9)
	require.InDelta(t, 4.0, got[2].Y, 1e-9)
	require.Equal(t, 20.0, got[0].X)
}

func TestRSI_RisingSeries(t *testing.T) {
	got := RSI(3).Compute(ramp(10))
	require.Len(t, got, 7)
	for _, p := range got {
		require.InDelta(t, 100.0, p.Y, 1e-9)
	}
	require.Equal(t, core.Dotted, RSI(3).Style())
}

func TestBollingerBands(t *testing.T) {
	points := ramp(6)
	upper := BollingerBands(3, 2, UpperBand).Compute(points)
	middle := BollingerBands(3, 2, MiddleBand).Compute(points)
	lower := BollingerBands(3, 2, LowerBand).Compute(points)

	require.Len(t, middle, 4)
	for i := range middle {
		require.Greater(t, upper[i].Y, middle[i].Y)
		require.Less(t, lower[i].Y, middle[i].Y)
	}
	require.InDelta(t, 2.0, middle[0].Y, 1e-9)
}

func TestMACD(t *testing.T) {
	points := ramp(40)
	main := MACD(3, 6, 4, MACDMain).Compute(points)
	signal := MACD(3, 6, 4, MACDSignal).Compute(points)
	hist := MACD(3, 6, 4, MACDHistogram).Compute(points)

	require.Equal(t, "MACD(3, 6, 4) signal", MACD(3, 6, 4, MACDSignal).Name())
	require.Len(t, main, 30)
	require.Len(t, signal, 30)
	require.Len(t, hist, 30)
	require.Equal(t, points[10].X, main[0].X)

	for i := range main {
		require.Greater(t, main[i].Y, 0.0)
		require.InDelta(t, main[i].Y-signal[i].Y, hist[i].Y, 1e-9)
	}
}

func TestIndicators_ShortInput(t *testing.T) {
	for _, ind := range []Indicator{SMA(5), EMA(5), RSI(5), BollingerBands(5, 2, UpperBand), MACD(3, 5, 2, MACDMain), SMA(0)} {
		require.Empty(t, ind.Compute(ramp(3)), ind.Name())
		require.Empty(t, ind.Compute(nil), ind.Name())
	}
}

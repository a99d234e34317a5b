package calculator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PriceBoard/internal/generator"
	"PriceBoard/internal/model"
)

func point(day int, price float64) model.PricePoint {
	return model.PricePoint{Date: model.NewDate(2024, time.January, day), Price: price}
}

func TestReduce_Scenario(t *testing.T) {
	stats, err := Reduce(model.Series{point(7, 100), point(10, 110)})
	require.NoError(t, err)
	assert.Equal(t, 110.0, stats.CurrentPrice)
	assert.InDelta(t, 10.0, stats.AbsoluteChange, 1e-9)
	assert.InDelta(t, 10.0, stats.PercentChange, 1e-9)
	assert.True(t, stats.Rising())
}

func TestReduce_IgnoresInterior(t *testing.T) {
	a, err := Reduce(model.Series{point(1, 200), point(2, 1), point(3, 150)})
	require.NoError(t, err)
	b, err := Reduce(model.Series{point(1, 200), point(2, 9999), point(3, 150)})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.InDelta(t, -50.0, a.AbsoluteChange, 1e-9)
	assert.InDelta(t, -25.0, a.PercentChange, 1e-9)
	assert.False(t, a.Rising())
}

func TestReduce_SinglePoint(t *testing.T) {
	stats, err := Reduce(model.Series{point(1, 42)})
	require.NoError(t, err)
	assert.Equal(t, model.PriceStats{CurrentPrice: 42}, stats)
	assert.True(t, stats.Rising(), "no change renders as up")
}

func TestReduce_Degenerate(t *testing.T) {
	_, err := Reduce(nil)
	assert.True(t, errors.Is(err, ErrEmptySeries))

	_, err = Reduce(model.Series{})
	assert.True(t, errors.Is(err, ErrEmptySeries))

	_, err = Reduce(model.Series{point(1, 0), point(2, 10)})
	assert.True(t, errors.Is(err, ErrZeroBasePrice))
}

func TestReduce_GeneratedSeries(t *testing.T) {
	g := generator.New(generator.WithSeed(11))
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, days := range []int{0, 7, 30, 365} {
		series, err := g.Generate(days, now)
		require.NoError(t, err)

		stats, err := Reduce(series)
		require.NoError(t, err)

		first, last := series[0].Price, series[len(series)-1].Price
		assert.Equal(t, last, stats.CurrentPrice)
		assert.InDelta(t, last-first, stats.AbsoluteChange, 1e-9)
		assert.InDelta(t, (last-first)/first*100, stats.PercentChange, 1e-9)
	}
}

func TestCalculateSMA(t *testing.T) {
	avg, err := CalculateSMA([]float64{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.5, avg)

	_, err = CalculateSMA([]float64{1}, 2)
	assert.Error(t, err)
	_, err = CalculateSMA([]float64{1}, 0)
	assert.Error(t, err)

	avg, width, err := CalculateTrailingSMA([]float64{2, 4}, 7)
	require.NoError(t, err)
	assert.Equal(t, 3.0, avg)
	assert.Equal(t, 2, width)
}

func TestCalculateRangeAndPosition(t *testing.T) {
	high, low, err := CalculateRange([]float64{5, 1, 9, 3})
	require.NoError(t, err)
	assert.Equal(t, 9.0, high)
	assert.Equal(t, 1.0, low)

	_, _, err = CalculateRange(nil)
	assert.True(t, errors.Is(err, ErrEmptySeries))

	tests := []struct {
		current, high, low, want float64
	}{
		{5, 9, 1, 0.5},
		{9, 9, 1, 1},
		{0, 9, 1, 0},
		{20, 9, 1, 1},
		{3, 3, 3, 0.5},
	}
	for _, tt := range tests {
		pos, err := CalculatePosition(tt.current, tt.high, tt.low)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, pos, 1e-9, "current=%.1f", tt.current)
	}

	_, err = CalculatePosition(1, 1, 2)
	assert.Error(t, err)
}

func TestCalculateRSI(t *testing.T) {
	rising := make([]float64, 20)
	flat := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(100 + i)
		flat[i] = 100
	}

	rsi, err := CalculateRSI(rising, 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi)

	rsi, err = CalculateRSI(flat, 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rsi)

	rsi, err = CalculateRSI(rising[:5], 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rsi, "insufficient data is neutral")

	_, err = CalculateRSI(rising, 0)
	assert.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	series := model.Series{point(1, 10), point(2, 30), point(3, 20)}
	ind, err := Analyze(series)
	require.NoError(t, err)
	assert.Equal(t, 3, ind.Samples)
	assert.Equal(t, 30.0, ind.High)
	assert.Equal(t, 10.0, ind.Low)
	assert.InDelta(t, 0.5, ind.Position, 1e-9)
	assert.InDelta(t, 20.0, ind.SMA, 1e-9)
	assert.Equal(t, 3, ind.SMAWidth)
	assert.Equal(t, 50.0, ind.RSI)

	_, err = Analyze(nil)
	assert.True(t, errors.Is(err, ErrEmptySeries))
}

package generator

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PriceBoard/internal/model"
)

var refNow = time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)

func TestGenerate_Scenario(t *testing.T) {
	g := New(WithSeed(42))
	series, err := g.Generate(3, refNow)
	require.NoError(t, err)
	require.Len(t, series, 4)

	want := []string{"2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10"}
	for i, p := range series {
		assert.Equal(t, want[i], p.Date.String())
	}
}

func TestGenerate_LengthOrderAndLastDate(t *testing.T) {
	g := New(WithSeed(7))
	for _, days := range []int{0, 1, 3, 7, 30, 180, 360, 365} {
		series, err := g.Generate(days, refNow)
		require.NoError(t, err)
		require.Len(t, series, days+1, "days=%d", days)

		for i := 1; i < len(series); i++ {
			assert.True(t, series[i].Date.Equal(series[i-1].Date.AddDays(1)),
				"days=%d: gap or disorder at %d (%s -> %s)", days, i, series[i-1].Date, series[i].Date)
		}
		last, _ := series.Last()
		assert.True(t, last.Date.Equal(model.DateOf(refNow)), "days=%d: last date %s", days, last.Date)
	}
}

func TestGenerate_AcrossLeapDay(t *testing.T) {
	now := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	series, err := New(WithSeed(1)).Generate(2, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", series[0].Date.String())
}

func TestGenerate_PricesWithinBand(t *testing.T) {
	g := New(WithSeed(99), WithBasePrice(100), WithNoiseAmplitude(10))
	series, err := g.Generate(500, refNow)
	require.NoError(t, err)
	for _, p := range series {
		assert.GreaterOrEqual(t, p.Price, 90.0)
		assert.Less(t, p.Price, 110.0)
	}
}

func TestGenerate_ZeroAmplitudeIsFlat(t *testing.T) {
	g := New(WithBasePrice(500), WithNoiseAmplitude(0))
	series, err := g.Generate(5, refNow)
	require.NoError(t, err)
	for _, p := range series {
		assert.Equal(t, 500.0, p.Price)
	}
}

func TestGenerate_SeedIsReproducible(t *testing.T) {
	a, err := New(WithSeed(5)).Generate(10, refNow)
	require.NoError(t, err)
	b, err := New(WithSeed(5)).Generate(10, refNow)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := New(WithSource(rand.NewPCG(1, 2))).Generate(10, refNow)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerate_NegativeLookback(t *testing.T) {
	_, err := New().Generate(-1, refNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidLookback))
}

func TestNew_Settings(t *testing.T) {
	g := New()
	assert.Equal(t, DefaultBasePrice, g.BasePrice())
	assert.Equal(t, DefaultNoiseAmplitude, g.NoiseAmplitude())

	g = New(WithBasePrice(100), WithNoiseAmplitude(0))
	assert.Equal(t, 100.0, g.BasePrice())
	assert.Equal(t, 0.0, g.NoiseAmplitude())
}

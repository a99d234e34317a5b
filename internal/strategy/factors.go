package strategy

import (
	"fmt"

	"PriceBoard/internal/model"
)

const (
	weightMomentum = 0.40
	weightSMA      = 0.25
	weightRSI      = 0.20
	weightPosition = 0.15
)

// scoreMomentum scores the percentage change over the whole window.
// Weight: 0.40
func scoreMomentum(stats model.PriceStats) model.FactorScore {
	pct := stats.PercentChange
	var score float64
	switch {
	case pct >= 5:
		score = 2.0
	case pct >= 2:
		score = 1.0
	case pct > -2:
		score = 0
	case pct > -5:
		score = -1.0
	default:
		score = -2.0
	}
	return model.FactorScore{
		Name:       "Momentum",
		RawScore:   score,
		Weight:     weightMomentum,
		Weighted:   score * weightMomentum,
		Commentary: fmt.Sprintf("change %+.2f%%", pct),
	}
}

// scoreSMADeviation scores how far the current price sits from its trailing average.
// Weight: 0.25
func scoreSMADeviation(stats model.PriceStats, ind *model.SeriesIndicators) model.FactorScore {
	if ind.SMA == 0 {
		return model.FactorScore{Name: "SMA deviation", Weight: weightSMA, Commentary: "SMA unavailable"}
	}
	deviation := (stats.CurrentPrice - ind.SMA) / ind.SMA * 100

	var score float64
	switch {
	case deviation >= 3:
		score = 2.0
	case deviation >= 1:
		score = 1.0
	case deviation > -1:
		score = 0
	case deviation > -3:
		score = -1.0
	default:
		score = -2.0
	}
	return model.FactorScore{
		Name:       "SMA deviation",
		RawScore:   score,
		Weight:     weightSMA,
		Weighted:   score * weightSMA,
		Commentary: fmt.Sprintf("%+.2f%% vs SMA%d", deviation, ind.SMAWidth),
	}
}

// scoreRSI reads RSI(14) as a momentum gauge.
// Weight: 0.20
func scoreRSI(ind *model.SeriesIndicators) model.FactorScore {
	rsi := ind.RSI
	var score float64
	switch {
	case rsi >= 70:
		score = 2.0
	case rsi >= 60:
		score = 1.0
	case rsi > 40:
		score = 0
	case rsi > 30:
		score = -1.0
	default:
		score = -2.0
	}
	return model.FactorScore{
		Name:       "RSI",
		RawScore:   score,
		Weight:     weightRSI,
		Weighted:   score * weightRSI,
		Commentary: fmt.Sprintf("RSI=%.0f", rsi),
	}
}

// scoreRangePosition scores where the current price sits between the window's low and high.
// Weight: 0.15
func scoreRangePosition(ind *model.SeriesIndicators) model.FactorScore {
	pos := ind.Position
	var score float64
	switch {
	case pos >= 0.9:
		score = 2.0
	case pos >= 0.65:
		score = 1.0
	case pos > 0.35:
		score = 0
	case pos > 0.1:
		score = -1.0
	default:
		score = -2.0
	}
	return model.FactorScore{
		Name:       "Range position",
		RawScore:   score,
		Weight:     weightPosition,
		Weighted:   score * weightPosition,
		Commentary: fmt.Sprintf("%.0f%% of range", pos*100),
	}
}

package calculator

import (
	log "github.com/sirupsen/logrus"

	"PriceBoard/internal/model"
)

const (
	SMAPeriod = 7
	RSIPeriod = 14
)

// Analyze computes the Statistics tab indicators for a series. Individual
// indicator failures fall back to neutral values and are logged; only an
// empty series is an error.
func Analyze(series model.Series) (*model.SeriesIndicators, error) {
	last, ok := series.Last()
	if !ok {
		return nil, ErrEmptySeries
	}
	prices := series.Prices()
	ind := &model.SeriesIndicators{Samples: len(series)}

	if h, l, err := CalculateRange(prices); err != nil {
		log.WithError(err).Warn("range calculation failed, using current price")
		ind.High, ind.Low = last.Price, last.Price
	} else {
		ind.High, ind.Low = h, l
	}

	if pos, err := CalculatePosition(last.Price, ind.High, ind.Low); err != nil {
		log.WithError(err).Warn("position calculation failed, defaulting to 0.5")
		ind.Position = 0.5
	} else {
		ind.Position = pos
	}

	if sma, width, err := CalculateTrailingSMA(prices, SMAPeriod); err != nil {
		log.WithError(err).Warn("SMA calculation failed, using current price")
		ind.SMA, ind.SMAWidth = last.Price, 1
	} else {
		ind.SMA, ind.SMAWidth = sma, width
	}

	if rsi, err := CalculateRSI(prices, RSIPeriod); err != nil {
		log.WithError(err).Warn("RSI calculation failed, defaulting to 50")
		ind.RSI = 50
	} else {
		ind.RSI = rsi
	}

	return ind, nil
}

package calculator

import (
	"errors"

	"PriceBoard/internal/model"
)

var (
	// ErrEmptySeries is returned when there is nothing to reduce.
	ErrEmptySeries = errors.New("series is empty")
	// ErrZeroBasePrice is returned when the first price is zero and the
	// percentage change would divide by zero.
	ErrZeroBasePrice = errors.New("first price is zero, percent change undefined")
)

// Reduce computes the summary stats of a series from its first and last points.
// The interior of the series does not affect the result.
func Reduce(series model.Series) (model.PriceStats, error) {
	first, ok := series.First()
	if !ok {
		return model.PriceStats{}, ErrEmptySeries
	}
	if first.Price == 0 {
		return model.PriceStats{}, ErrZeroBasePrice
	}
	last, _ := series.Last()

	change := last.Price - first.Price
	return model.PriceStats{
		CurrentPrice:   last.Price,
		AbsoluteChange: change,
		PercentChange:  change / first.Price * 100,
	}, nil
}

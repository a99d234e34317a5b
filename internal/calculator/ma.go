package calculator

import (
	"errors"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateTrailingSMA averages the last min(period, len(prices)) prices and
// reports the width actually used.
func CalculateTrailingSMA(prices []float64, period int) (avg float64, width int, err error) {
	if len(prices) == 0 {
		return 0, 0, ErrEmptySeries
	}
	width = period
	if width > len(prices) {
		width = len(prices)
	}
	avg, err = CalculateSMA(prices, width)
	return avg, width, err
}

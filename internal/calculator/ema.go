package calculator

import (
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"

	"XauSentinel/internal/model"
)

// ErrNotEnoughData is returned when a series is shorter than the indicator needs.
var ErrNotEnoughData = errors.New("not enough data")

// EMA returns the latest value of the exponential moving average of values.
// The average is seeded with the simple mean of the first period values.
func EMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, fmt.Errorf("ema(%d) over %d values: %w", period, len(values), ErrNotEnoughData)
	}
	out := talib.Ema(values, period)
	return out[len(out)-1], nil
}

// Closes extracts the close prices of bars in order.
func Closes(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func highs(bars []model.OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

func lows(bars []model.OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

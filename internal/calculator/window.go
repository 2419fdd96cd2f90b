package calculator

import (
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"

	"XauSentinel/internal/model"
)

// HighestHigh returns the highest high over the window bars that end skip bars
// before the last bar. skip=1 excludes the bar still being evaluated.
func HighestHigh(bars []model.OHLCV, window, skip int) (float64, error) {
	idx, err := windowEnd(len(bars), window, skip)
	if err != nil {
		return 0, fmt.Errorf("highest high: %w", err)
	}
	if window == 1 {
		return bars[idx].High, nil
	}
	return talib.Max(highs(bars), window)[idx], nil
}

// LowestLow is the mirror of HighestHigh over bar lows.
func LowestLow(bars []model.OHLCV, window, skip int) (float64, error) {
	idx, err := windowEnd(len(bars), window, skip)
	if err != nil {
		return 0, fmt.Errorf("lowest low: %w", err)
	}
	if window == 1 {
		return bars[idx].Low, nil
	}
	return talib.Min(lows(bars), window)[idx], nil
}

func windowEnd(n, window, skip int) (int, error) {
	if window <= 0 || skip < 0 {
		return 0, errors.New("window must be positive and skip non-negative")
	}
	if n < window+skip {
		return 0, fmt.Errorf("window %d skip %d over %d bars: %w", window, skip, n, ErrNotEnoughData)
	}
	return n - 1 - skip, nil
}

package strategy

import (
	"fmt"

	"XauSentinel/internal/calculator"
	"XauSentinel/internal/model"
)

// BiasOf compares the fast and slow EMA of closes.
// Equal averages count as bearish.
func BiasOf(bars []model.OHLCV, fast, slow int) (model.Bias, error) {
	closes := calculator.Closes(bars)
	f, err := calculator.EMA(closes, fast)
	if err != nil {
		return model.BiasNone, fmt.Errorf("fast ema: %w", err)
	}
	s, err := calculator.EMA(closes, slow)
	if err != nil {
		return model.BiasNone, fmt.Errorf("slow ema: %w", err)
	}
	if f > s {
		return model.BiasBullish, nil
	}
	return model.BiasBearish, nil
}

// TrendBias returns the H4 bias when H1 agrees with it, BiasNone otherwise.
func TrendBias(h4, h1 []model.OHLCV, fast, slow int) (model.Bias, error) {
	b4, err := BiasOf(h4, fast, slow)
	if err != nil {
		return model.BiasNone, fmt.Errorf("h4 bias: %w", err)
	}
	b1, err := BiasOf(h1, fast, slow)
	if err != nil {
		return model.BiasNone, fmt.Errorf("h1 bias: %w", err)
	}
	if b4 != b1 {
		return model.BiasNone, nil
	}
	return b4, nil
}

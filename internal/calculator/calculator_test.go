package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"XauSentinel/internal/model"
)

func barsFrom(highs, lows []float64) []model.OHLCV {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(highs))
	for i := range highs {
		bars[i] = model.OHLCV{
			Time:  start.Add(time.Duration(i) * 5 * time.Minute),
			High:  highs[i],
			Low:   lows[i],
			Open:  (highs[i] + lows[i]) / 2,
			Close: (highs[i] + lows[i]) / 2,
		}
	}
	return bars
}

func TestEMA_ConstantSeries(t *testing.T) {
	values := make([]float64, 250)
	for i := range values {
		values[i] = 2300
	}
	got, err := EMA(values, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-2300) > 1e-9 {
		t.Errorf("expected 2300, got %f", got)
	}
}

func TestEMA_FastAboveSlowOnRisingSeries(t *testing.T) {
	values := make([]float64, 300)
	for i := range values {
		values[i] = 2000 + float64(i)
	}
	fast, err := EMA(values, 50)
	if err != nil {
		t.Fatal(err)
	}
	slow, err := EMA(values, 200)
	if err != nil {
		t.Fatal(err)
	}
	if fast <= slow {
		t.Errorf("expected fast EMA above slow on rising series: fast=%f slow=%f", fast, slow)
	}
}

func TestEMA_NotEnoughData(t *testing.T) {
	_, err := EMA([]float64{1, 2, 3}, 50)
	if !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("expected ErrNotEnoughData, got %v", err)
	}
	if _, err := EMA([]float64{1}, 0); err == nil {
		t.Fatal("expected error for zero period")
	}
}

func TestHighestHighLowestLow_SkipLastBar(t *testing.T) {
	highs := []float64{10, 12, 11, 15, 13, 99}
	lows := []float64{5, 6, 4, 7, 8, 1}
	bars := barsFrom(highs, lows)

	hi, err := HighestHigh(bars, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if hi != 15 {
		t.Errorf("expected 15 (last bar excluded), got %f", hi)
	}

	lo, err := LowestLow(bars, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if lo != 4 {
		t.Errorf("expected 4 (last bar excluded), got %f", lo)
	}

	hi, err = HighestHigh(bars, 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if hi != 99 {
		t.Errorf("expected 99 with skip=0, got %f", hi)
	}
}

func TestWindow_NotEnoughBars(t *testing.T) {
	bars := barsFrom([]float64{1, 2, 3}, []float64{0, 1, 2})
	if _, err := HighestHigh(bars, 3, 1); !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("expected ErrNotEnoughData, got %v", err)
	}
	if _, err := LowestLow(bars, 0, 1); err == nil {
		t.Fatal("expected error for zero window")
	}
}

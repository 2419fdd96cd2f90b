package strategy

import (
	"fmt"
	"math"

	"XauSentinel/internal/calculator"
	"XauSentinel/internal/model"
)

// DetectEntry confirms an M5 entry for bias. The last bar is the trigger bar;
// rolling windows end one bar before it.
func DetectEntry(bars []model.OHLCV, bias model.Bias, zonePrice float64, p Params) (model.Entry, error) {
	if len(bars) < 2 {
		return model.Entry{}, fmt.Errorf("entry needs 2 bars, got %d: %w", len(bars), calculator.ErrNotEnoughData)
	}
	recentHigh, err := calculator.HighestHigh(bars, p.StructureWindow, 1)
	if err != nil {
		return model.Entry{}, err
	}
	recentLow, err := calculator.LowestLow(bars, p.StructureWindow, 1)
	if err != nil {
		return model.Entry{}, err
	}

	last, prev := bars[len(bars)-1], bars[len(bars)-2]
	e := model.Entry{CandleTime: last.Time}

	switch {
	case bias == model.BiasBullish && last.Close > recentHigh:
		e.Structure = model.BOSUp
	case bias == model.BiasBearish && last.Close < recentLow:
		e.Structure = model.BOSDown
	}

	if zonePrice != 0 {
		e.ZoneRetest = math.Abs(last.Mid()-zonePrice)/zonePrice <= p.RetestTolerance
	}

	switch bias {
	case model.BiasBullish:
		e.Engulfing = last.Close > prev.High
		e.StopLoss, err = calculator.LowestLow(bars, p.StopWindow, 1)
	default:
		e.Engulfing = bias == model.BiasBearish && last.Close < prev.Low
		e.StopLoss, err = calculator.HighestHigh(bars, p.StopWindow, 1)
	}
	if err != nil {
		return model.Entry{}, fmt.Errorf("stop loss: %w", err)
	}

	if e.Structure != model.StructureNone && e.ZoneRetest && e.Engulfing {
		e.OK = true
		e.Price = last.Close
	}
	return e, nil
}

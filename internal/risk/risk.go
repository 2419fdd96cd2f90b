// Package risk sizes trades at a fixed 1:2 risk/reward.
package risk

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"XauSentinel/internal/model"
)

// RewardMultiple is the take-profit distance in units of risk.
var RewardMultiple = decimal.NewFromInt(2)

// ErrNoRisk is returned when the stop is on the wrong side of the entry.
var ErrNoRisk = errors.New("non-positive risk per unit")

// Sizer turns an entry and stop into a sized plan.
type Sizer struct {
	Balance      decimal.Decimal
	RiskFraction decimal.Decimal
}

// NewSizer creates a Sizer for the given account balance and risk fraction.
func NewSizer(balance, riskFraction float64) Sizer {
	return Sizer{
		Balance:      decimal.NewFromFloat(balance),
		RiskFraction: decimal.NewFromFloat(riskFraction),
	}
}

// Budget is the cash amount risked per trade.
func (s Sizer) Budget() decimal.Decimal {
	return s.Balance.Mul(s.RiskFraction)
}

// Plan computes take profit and size. A zero or negative per-unit risk means no trade.
func (s Sizer) Plan(entry, stopLoss float64, dir model.Direction) (model.Plan, error) {
	e := decimal.NewFromFloat(entry)
	sl := decimal.NewFromFloat(stopLoss)

	var perUnit, tp decimal.Decimal
	switch dir {
	case model.Buy:
		perUnit = e.Sub(sl)
		tp = e.Add(perUnit.Mul(RewardMultiple))
	case model.Sell:
		perUnit = sl.Sub(e)
		tp = e.Sub(perUnit.Mul(RewardMultiple))
	default:
		return model.Plan{}, fmt.Errorf("unknown direction %q", dir)
	}
	if !perUnit.IsPositive() {
		return model.Plan{}, fmt.Errorf("%s entry %.2f stop %.2f: %w", dir, entry, stopLoss, ErrNoRisk)
	}

	budget := s.Budget()
	return model.Plan{
		Direction:   dir,
		Entry:       e,
		StopLoss:    sl,
		TakeProfit:  tp,
		RiskPerUnit: perUnit,
		RiskAmount:  budget,
		Size:        budget.Div(perUnit),
	}, nil
}

package risk

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"XauSentinel/internal/model"
)

func TestPlan_RewardIsTwiceRisk(t *testing.T) {
	s := NewSizer(10000, 0.01)
	tests := []struct {
		name  string
		entry float64
		stop  float64
		dir   model.Direction
	}{
		{"buy", 2350.10, 2340.00, model.Buy},
		{"sell", 2350.10, 2361.35, model.Sell},
		{"buy tiny risk", 1999.99, 1999.98, model.Buy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.Plan(tt.entry, tt.stop, tt.dir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			reward := p.TakeProfit.Sub(p.Entry).Abs()
			risk := p.Entry.Sub(p.StopLoss).Abs()
			if !reward.Equal(risk.Mul(decimal.NewFromInt(2))) {
				t.Errorf("reward %s is not twice risk %s", reward, risk)
			}
			if !risk.Equal(p.RiskPerUnit) {
				t.Errorf("risk per unit %s, want %s", p.RiskPerUnit, risk)
			}
		})
	}
}

func TestPlan_TakeProfitSide(t *testing.T) {
	s := NewSizer(10000, 0.01)

	buy, err := s.Plan(2000, 1990, model.Buy)
	if err != nil {
		t.Fatal(err)
	}
	if !buy.TakeProfit.Equal(decimal.NewFromInt(2020)) {
		t.Errorf("buy TP: got %s, want 2020", buy.TakeProfit)
	}

	sell, err := s.Plan(2000, 2010, model.Sell)
	if err != nil {
		t.Fatal(err)
	}
	if !sell.TakeProfit.Equal(decimal.NewFromInt(1980)) {
		t.Errorf("sell TP: got %s, want 1980", sell.TakeProfit)
	}
}

func TestPlan_SizeIsBudgetOverRisk(t *testing.T) {
	s := NewSizer(10000, 0.01)
	p, err := s.Plan(2000, 1990, model.Buy)
	if err != nil {
		t.Fatal(err)
	}
	if !p.RiskAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("risk amount: got %s, want 100", p.RiskAmount)
	}
	if !p.Size.Equal(decimal.NewFromInt(10)) {
		t.Errorf("size: got %s, want 10", p.Size)
	}

	p, err = s.Plan(2000, 2025, model.Sell)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Size.Equal(decimal.NewFromInt(4)) {
		t.Errorf("size: got %s, want 4", p.Size)
	}
}

func TestPlan_NoTradeOnNonPositiveRisk(t *testing.T) {
	s := NewSizer(10000, 0.01)
	tests := []struct {
		name  string
		entry float64
		stop  float64
		dir   model.Direction
	}{
		{"buy zero risk", 2000, 2000, model.Buy},
		{"buy stop above entry", 2000, 2005, model.Buy},
		{"sell zero risk", 2000, 2000, model.Sell},
		{"sell stop below entry", 2000, 1995, model.Sell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Plan(tt.entry, tt.stop, tt.dir)
			if !errors.Is(err, ErrNoRisk) {
				t.Fatalf("expected ErrNoRisk, got %v", err)
			}
		})
	}
}

func TestPlan_UnknownDirection(t *testing.T) {
	if _, err := NewSizer(10000, 0.01).Plan(2000, 1990, "HOLD"); err == nil {
		t.Fatal("expected error for unknown direction")
	}
}

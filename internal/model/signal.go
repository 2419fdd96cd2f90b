package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bias is the higher-timeframe direction implied by the moving averages.
type Bias string

const (
	BiasNone    Bias = ""
	BiasBullish Bias = "BULLISH"
	BiasBearish Bias = "BEARISH"
)

// Direction is the trade side implied by a bias.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Direction maps a bias to the side a trade would take.
func (b Bias) Direction() Direction {
	if b == BiasBullish {
		return Buy
	}
	return Sell
}

// ZoneType labels a fair value gap by the side it favours.
type ZoneType string

const (
	BullishFVG ZoneType = "BULLISH_FVG"
	BearishFVG ZoneType = "BEARISH_FVG"
)

// Zone is a price imbalance on the hourly chart used as a retest target.
type Zone struct {
	Type  ZoneType  `json:"type"`
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// Structure labels a break of the recent M5 range.
type Structure string

const (
	StructureNone Structure = ""
	BOSUp         Structure = "BOS_UP"
	BOSDown       Structure = "BOS_DOWN"
)

// Entry is the outcome of the lower-timeframe confirmation.
type Entry struct {
	Structure  Structure
	ZoneRetest bool
	Engulfing  bool
	OK         bool
	Price      float64
	StopLoss   float64
	CandleTime time.Time
}

// Plan is a sized trade with a fixed 1:2 risk/reward.
type Plan struct {
	Direction   Direction
	Entry       decimal.Decimal
	StopLoss    decimal.Decimal
	TakeProfit  decimal.Decimal
	RiskPerUnit decimal.Decimal
	RiskAmount  decimal.Decimal
	Size        decimal.Decimal
}

// Signal is the alert emitted when trend, zone and entry line up.
type Signal struct {
	ID         string
	Symbol     string
	Label      string
	Bias       Bias
	Zone       Zone
	Plan       Plan
	CandleTime time.Time
	CreatedAt  time.Time
}

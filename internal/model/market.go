package model

import "time"

// OHLCV represents a single candlestick bar. Time is always UTC.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Mid returns the midpoint of the bar's range.
func (b OHLCV) Mid() float64 {
	return (b.High + b.Low) / 2
}

// Timeframe identifies the bar period requested from the data source.
type Timeframe string

const (
	M1 Timeframe = "1m"
	M5 Timeframe = "5m"
	H1 Timeframe = "1h"
	H4 Timeframe = "4h"
)

package collector

import (
	"context"

	"XauSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
// interval and rng use Yahoo chart notation ("5m", "1h", "5d", "1mo").
type Fetcher interface {
	FetchBars(ctx context.Context, symbol, interval, rng string) ([]model.OHLCV, error)
	Name() string
}

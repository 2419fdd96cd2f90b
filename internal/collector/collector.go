package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"XauSentinel/internal/model"
)

// ErrNoData is returned when the source answers with no usable bars.
var ErrNoData = errors.New("no bars returned")

// Lookback holds the chart range fetched for each analysed timeframe.
type Lookback struct {
	H4 string
	H1 string
	M5 string
}

// DefaultLookback covers the 200-period EMA on both higher timeframes.
var DefaultLookback = Lookback{H4: "3mo", H1: "1mo", M5: "5d"}

// Collector maps timeframes to fetcher requests.
type Collector struct {
	Fetcher  Fetcher
	Symbol   string
	Lookback Lookback
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, lb Lookback) *Collector {
	if lb.H4 == "" {
		lb.H4 = DefaultLookback.H4
	}
	if lb.H1 == "" {
		lb.H1 = DefaultLookback.H1
	}
	if lb.M5 == "" {
		lb.M5 = DefaultLookback.M5
	}
	return &Collector{Fetcher: fetcher, Symbol: symbol, Lookback: lb}
}

// Bars returns ascending bars for tf. 4h bars are built from hourly data.
func (c *Collector) Bars(ctx context.Context, tf model.Timeframe) ([]model.OHLCV, error) {
	var (
		bars []model.OHLCV
		err  error
	)
	switch tf {
	case model.M1:
		bars, err = c.Fetcher.FetchBars(ctx, c.Symbol, "1m", "1d")
	case model.M5:
		bars, err = c.Fetcher.FetchBars(ctx, c.Symbol, "5m", c.Lookback.M5)
	case model.H1:
		bars, err = c.Fetcher.FetchBars(ctx, c.Symbol, "1h", c.Lookback.H1)
	case model.H4:
		bars, err = c.Fetcher.FetchBars(ctx, c.Symbol, "1h", c.Lookback.H4)
		bars = Aggregate(bars, 4*time.Hour)
	default:
		return nil, fmt.Errorf("unsupported timeframe %q", tf)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", tf, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch %s bars: %w", tf, ErrNoData)
	}
	return bars, nil
}

// CurrentPrice returns the close of the latest one-minute bar.
func (c *Collector) CurrentPrice(ctx context.Context) (float64, error) {
	bars, err := c.Bars(ctx, model.M1)
	if err != nil {
		return 0, err
	}
	return bars[len(bars)-1].Close, nil
}

// Aggregate merges ascending bars into UTC-aligned buckets of the given period.
// Each bucket is stamped with its start time.
func Aggregate(bars []model.OHLCV, period time.Duration) []model.OHLCV {
	if len(bars) == 0 {
		return nil
	}
	var out []model.OHLCV
	var cur model.OHLCV
	var started bool

	for _, b := range bars {
		bucket := b.Time.UTC().Truncate(period)
		if !started || !bucket.Equal(cur.Time) {
			if started {
				out = append(out, cur)
			}
			cur = model.OHLCV{Time: bucket, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
			started = true
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
	}
	out = append(out, cur)
	return out
}

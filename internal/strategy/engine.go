package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"XauSentinel/internal/metrics"
	"XauSentinel/internal/model"
	"XauSentinel/internal/risk"
	"XauSentinel/internal/state"
)

// Params are the tunable windows and thresholds of the signal check.
type Params struct {
	FastEMA         int
	SlowEMA         int
	ZoneLookback    int
	StructureWindow int
	StopWindow      int
	RetestTolerance float64
}

// DefaultParams mirrors the classic EMA50/200 + 12-bar structure setup.
var DefaultParams = Params{
	FastEMA:         50,
	SlowEMA:         200,
	ZoneLookback:    12,
	StructureWindow: 12,
	StopWindow:      24,
	RetestTolerance: 0.005,
}

// BarSource provides ascending bars for a timeframe.
type BarSource interface {
	Bars(ctx context.Context, tf model.Timeframe) ([]model.OHLCV, error)
}

// Engine runs the trend → zone → entry → sizing chain once per call.
type Engine struct {
	Source BarSource
	Params Params
	Sizer  risk.Sizer
	State  *state.Manager
	Symbol string
	Label  string
	Log    zerolog.Logger

	now func() time.Time
}

// NewEngine creates an Engine.
func NewEngine(src BarSource, p Params, sizer risk.Sizer, st *state.Manager, symbol, label string, log zerolog.Logger) *Engine {
	return &Engine{
		Source: src,
		Params: p,
		Sizer:  sizer,
		State:  st,
		Symbol: symbol,
		Label:  label,
		Log:    log,
		now:    time.Now,
	}
}

func (e *Engine) bars(ctx context.Context, tf model.Timeframe) ([]model.OHLCV, error) {
	bars, err := e.Source.Bars(ctx, tf)
	if err != nil {
		metrics.FetchErrorsTotal.WithLabelValues(string(tf)).Inc()
		return nil, err
	}
	return bars, nil
}

// Trend returns the agreed H4/H1 bias, or BiasNone.
func (e *Engine) Trend(ctx context.Context) (model.Bias, error) {
	h4, err := e.bars(ctx, model.H4)
	if err != nil {
		return model.BiasNone, err
	}
	h1, err := e.bars(ctx, model.H1)
	if err != nil {
		return model.BiasNone, err
	}
	return TrendBias(h4, h1, e.Params.FastEMA, e.Params.SlowEMA)
}

// Zone returns the first fair value gap in the recent hourly bars.
func (e *Engine) Zone(ctx context.Context) (model.Zone, bool, error) {
	h1, err := e.bars(ctx, model.H1)
	if err != nil {
		return model.Zone{}, false, err
	}
	z, ok := DetectZone(h1, e.Params.ZoneLookback)
	return z, ok, nil
}

// Check evaluates the setup. It returns nil, nil when conditions do not line up.
// Cooldown markers are only updated when a signal is returned.
func (e *Engine) Check(ctx context.Context) (*model.Signal, error) {
	trend, err := e.Trend(ctx)
	if err != nil {
		return nil, fmt.Errorf("trend: %w", err)
	}
	if trend == model.BiasNone {
		e.Log.Debug().Msg("no trend: H4 and H1 disagree")
		return nil, nil
	}

	zone, ok, err := e.Zone(ctx)
	if err != nil {
		return nil, fmt.Errorf("zone: %w", err)
	}
	if !ok {
		e.Log.Debug().Str("trend", string(trend)).Msg("no zone")
		return nil, nil
	}
	if e.State.ObserveZone(zone) {
		e.Log.Info().Str("zone", string(zone.Type)).Time("zone_time", zone.Time).
			Float64("price", zone.Price).Msg("new zone")
	}
	if e.State.ZoneSignalled(zone.Time) {
		e.Log.Debug().Time("zone_time", zone.Time).Msg("zone already traded")
		return nil, nil
	}

	m5, err := e.bars(ctx, model.M5)
	if err != nil {
		return nil, fmt.Errorf("entry: %w", err)
	}
	entry, err := DetectEntry(m5, trend, zone.Price, e.Params)
	if err != nil {
		return nil, fmt.Errorf("entry: %w", err)
	}
	if !entry.OK {
		e.Log.Debug().
			Str("structure", string(entry.Structure)).
			Bool("retest", entry.ZoneRetest).
			Bool("engulfing", entry.Engulfing).
			Msg("entry not confirmed")
		return nil, nil
	}
	if e.State.CandleSignalled(entry.CandleTime) {
		e.Log.Debug().Time("candle", entry.CandleTime).Msg("candle already signalled")
		return nil, nil
	}

	plan, err := e.Sizer.Plan(entry.Price, entry.StopLoss, trend.Direction())
	if err != nil {
		if errors.Is(err, risk.ErrNoRisk) {
			e.Log.Debug().Err(err).Msg("no trade")
			return nil, nil
		}
		return nil, fmt.Errorf("risk: %w", err)
	}

	e.State.MarkSignalled(entry.CandleTime, zone.Time)
	return &model.Signal{
		ID:         uuid.NewString(),
		Symbol:     e.Symbol,
		Label:      e.Label,
		Bias:       trend,
		Zone:       zone,
		Plan:       plan,
		CandleTime: entry.CandleTime,
		CreatedAt:  e.now().UTC(),
	}, nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"XauSentinel/internal/collector"
	"XauSentinel/internal/config"
	"XauSentinel/internal/logger"
	"XauSentinel/internal/metrics"
	"XauSentinel/internal/notifier"
	"XauSentinel/internal/recorder"
	"XauSentinel/internal/risk"
	"XauSentinel/internal/scheduler"
	"XauSentinel/internal/state"
	"XauSentinel/internal/strategy"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot := logger.New("info", false)
		boot.Fatal().Err(err).Str("path", cfgPath).Msg("load config")
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Str("label", cfg.DataSource.Label).Str("schedule", cfg.Schedule.Spec).Msg("XauSentinel starting")

	// Data source
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Info().Str("source", fetcher.Name()).Str("symbol", cfg.DataSource.Symbol).Msg("data source ready")

	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, collector.Lookback{
		H4: cfg.DataSource.LookbackH4,
		H1: cfg.DataSource.LookbackH1,
		M5: cfg.DataSource.LookbackM5,
	})

	st, err := state.NewManager(cfg.State.File, logger.Component(log, "state"))
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.State.File).Msg("load state")
	}

	params := strategy.Params{
		FastEMA:         cfg.Strategy.FastEMA,
		SlowEMA:         cfg.Strategy.SlowEMA,
		ZoneLookback:    cfg.Strategy.ZoneLookback,
		StructureWindow: cfg.Strategy.StructureWindow,
		StopWindow:      cfg.Strategy.StopWindow,
		RetestTolerance: cfg.Strategy.RetestTolerance,
	}
	sizer := risk.NewSizer(cfg.Risk.AccountBalance, cfg.Risk.RiskPerTrade)
	engine := strategy.NewEngine(col, params, sizer, st, cfg.DataSource.Symbol, cfg.DataSource.Label,
		logger.Component(log, "strategy"))

	tn := notifier.NewTelegramNotifier(cfg.Telegram.APIURL, cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy,
		logger.Component(log, "telegram"))

	rec := openRecorder(cfg.Database.SQLitePath, log)
	defer rec.Close()

	if cfg.Metrics.Addr != "" {
		srv, err := metrics.Serve(cfg.Metrics.Addr, logger.Component(log, "metrics"))
		if err != nil {
			log.Warn().Err(err).Msg("metrics disabled")
		} else {
			log.Info().Str("addr", srv.Addr).Msg("metrics listening")
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()
		}
	}

	sched, err := scheduler.NewScheduler(cfg.Schedule.Spec, engine, col, tn, rec, st,
		cfg.Telegram.ChatID, cfg.DataSource.Label, logger.Component(log, "scheduler"))
	if err != nil {
		log.Fatal().Err(err).Msg("init scheduler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("XauSentinel is running. Press Ctrl+C to stop.")
	sched.Run(ctx)
	log.Info().Msg("XauSentinel stopped")
}

func openRecorder(path string, log zerolog.Logger) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path, logger.Component(log, "recorder"))
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

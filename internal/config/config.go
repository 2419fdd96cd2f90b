package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		APIURL   string `yaml:"api_url"`
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Symbol     string `yaml:"symbol"`
		Label      string `yaml:"label"`
		BaseURL    string `yaml:"base_url"`
		APIKey     string `yaml:"api_key"`
		LookbackH4 string `yaml:"lookback_h4"`
		LookbackH1 string `yaml:"lookback_h1"`
		LookbackM5 string `yaml:"lookback_m5"`
	} `yaml:"data_source"`
	Schedule struct {
		Spec string `yaml:"spec"`
	} `yaml:"schedule"`
	Risk struct {
		AccountBalance float64 `yaml:"account_balance"`
		RiskPerTrade   float64 `yaml:"risk_per_trade"`
	} `yaml:"risk"`
	Strategy struct {
		FastEMA         int     `yaml:"fast_ema"`
		SlowEMA         int     `yaml:"slow_ema"`
		ZoneLookback    int     `yaml:"zone_lookback"`
		StructureWindow int     `yaml:"structure_window"`
		StopWindow      int     `yaml:"stop_window"`
		RetestTolerance float64 `yaml:"retest_tolerance"`
	} `yaml:"strategy"`
	State struct {
		File string `yaml:"file"`
	} `yaml:"state"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then a .env file, then applies
// environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func applyEnv(cfg *Config) error {
	if v := firstEnv("TELEGRAM_BOT_TOKEN", "TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := firstEnv("TELEGRAM_CHAT_ID", "CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("ACCOUNT_BALANCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ACCOUNT_BALANCE: %w", err)
		}
		cfg.Risk.AccountBalance = f
	}
	if v := os.Getenv("RISK_PER_TRADE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RISK_PER_TRADE: %w", err)
		}
		cfg.Risk.RiskPerTrade = f
	}
	if v := os.Getenv("SCHEDULE_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("SCHEDULE_MINUTES must be a positive integer, got %q", v)
		}
		cfg.Schedule.Spec = fmt.Sprintf("@every %dm", n)
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		cfg.State.File = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "GC=F"
	}
	if cfg.DataSource.Label == "" {
		cfg.DataSource.Label = "XAUUSD"
	}
	if cfg.Schedule.Spec == "" {
		cfg.Schedule.Spec = "@every 5m"
	}
	if cfg.Risk.AccountBalance == 0 {
		cfg.Risk.AccountBalance = 10000
	}
	if cfg.Risk.RiskPerTrade == 0 {
		cfg.Risk.RiskPerTrade = 0.01
	}
	s := &cfg.Strategy
	if s.FastEMA == 0 {
		s.FastEMA = 50
	}
	if s.SlowEMA == 0 {
		s.SlowEMA = 200
	}
	if s.ZoneLookback == 0 {
		s.ZoneLookback = 12
	}
	if s.StructureWindow == 0 {
		s.StructureWindow = 12
	}
	if s.StopWindow == 0 {
		s.StopWindow = 24
	}
	if s.RetestTolerance == 0 {
		s.RetestTolerance = 0.005
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Risk.AccountBalance <= 0 {
		return fmt.Errorf("risk.account_balance must be positive")
	}
	if c.Risk.RiskPerTrade <= 0 || c.Risk.RiskPerTrade >= 1 {
		return fmt.Errorf("risk.risk_per_trade must be in (0, 1)")
	}
	if c.Strategy.FastEMA >= c.Strategy.SlowEMA {
		return fmt.Errorf("strategy.fast_ema must be below strategy.slow_ema")
	}
	if c.Strategy.ZoneLookback < 3 {
		return fmt.Errorf("strategy.zone_lookback must be at least 3")
	}
	if c.Strategy.StructureWindow < 1 || c.Strategy.StopWindow < 1 {
		return fmt.Errorf("strategy windows must be positive")
	}
	if _, err := cron.ParseStandard(c.Schedule.Spec); err != nil {
		return fmt.Errorf("schedule.spec: %w", err)
	}
	return nil
}

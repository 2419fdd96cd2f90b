package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"XauSentinel/internal/model"
)

// SQLiteRecorder persists signal history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// storedSignal is a row of the signals table as read back by recentSignals.
type storedSignal struct {
	ID         string
	Symbol     string
	Bias       string
	ZoneType   string
	ZonePrice  float64
	Entry      string
	StopLoss   string
	TakeProfit string
	Size       string
	CandleTime time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			bias         TEXT NOT NULL,
			zone_type    TEXT,
			zone_time    INTEGER,
			zone_price   REAL,
			entry        TEXT,
			stop_loss    TEXT,
			take_profit  TEXT,
			risk_amount  TEXT,
			size         TEXT,
			candle_time  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordSignal stores one emitted signal. Decimal values are kept as text.
func (r *SQLiteRecorder) RecordSignal(sig *model.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO signals
		(id, timestamp, symbol, bias, zone_type, zone_time, zone_price,
		 entry, stop_loss, take_profit, risk_amount, size, candle_time)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		sig.ID, sig.CreatedAt.Unix(), sig.Symbol, string(sig.Bias),
		string(sig.Zone.Type), sig.Zone.Time.Unix(), sig.Zone.Price,
		sig.Plan.Entry.String(), sig.Plan.StopLoss.String(), sig.Plan.TakeProfit.String(),
		sig.Plan.RiskAmount.String(), sig.Plan.Size.String(), sig.CandleTime.Unix(),
	)
	return err
}

// recentSignals returns up to limit signals, newest first. Used to verify stored history.
func (r *SQLiteRecorder) recentSignals(limit int) ([]storedSignal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, symbol, bias, zone_type, zone_price,
		entry, stop_loss, take_profit, size, candle_time
		FROM signals ORDER BY timestamp DESC, candle_time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storedSignal
	for rows.Next() {
		var s storedSignal
		var candle int64
		if err := rows.Scan(&s.ID, &s.Symbol, &s.Bias, &s.ZoneType, &s.ZonePrice,
			&s.Entry, &s.StopLoss, &s.TakeProfit, &s.Size, &candle); err != nil {
			return nil, err
		}
		s.CandleTime = time.Unix(candle, 0).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

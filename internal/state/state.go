package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"XauSentinel/internal/model"
)

// Tracker is the memory carried between loop iterations.
type Tracker struct {
	LastZone           *model.Zone `json:"last_zone,omitempty"`
	LastSignalZoneTime time.Time   `json:"last_signal_zone_time"`
	LastSignalCandle   time.Time   `json:"last_signal_candle"`
	LastUpdateID       int64       `json:"last_update_id"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// LoadState reads the tracker from a JSON file. Returns a zero tracker if the file doesn't exist.
func LoadState(filePath string) (*Tracker, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Tracker{}, nil
		}
		return nil, err
	}
	var t Tracker
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// SaveState writes the tracker to a JSON file.
func SaveState(filePath string, t *Tracker) error {
	t.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0o644)
}

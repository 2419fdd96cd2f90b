package state

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"XauSentinel/internal/model"
)

// Manager guards the tracker and persists it on every change when a file is set.
type Manager struct {
	mu       sync.Mutex
	state    *Tracker
	filePath string
	log      zerolog.Logger
}

// NewManager loads the tracker from filePath. An empty path keeps it in memory only.
func NewManager(filePath string, log zerolog.Logger) (*Manager, error) {
	t := &Tracker{}
	if filePath != "" {
		loaded, err := LoadState(filePath)
		if err != nil {
			return nil, err
		}
		t = loaded
	}
	return &Manager{state: t, filePath: filePath, log: log}, nil
}

// Snapshot returns a copy of the current tracker.
func (m *Manager) Snapshot() Tracker {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.state
	if m.state.LastZone != nil {
		z := *m.state.LastZone
		cp.LastZone = &z
	}
	return cp
}

// ObserveZone remembers z. A zone with a new time clears the signalled-zone marker.
// Returns true when the zone replaced the remembered one.
func (m *Manager) ObserveZone(z model.Zone) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.LastZone != nil && m.state.LastZone.Time.Equal(z.Time) {
		return false
	}
	m.state.LastZone = &z
	m.state.LastSignalZoneTime = time.Time{}
	m.save()
	return true
}

// ZoneSignalled reports whether a signal was already sent for the zone formed at t.
func (m *Manager) ZoneSignalled(t time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.state.LastSignalZoneTime.IsZero() && m.state.LastSignalZoneTime.Equal(t)
}

// CandleSignalled reports whether a signal was already sent on the M5 candle at t.
func (m *Manager) CandleSignalled(t time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.state.LastSignalCandle.IsZero() && m.state.LastSignalCandle.Equal(t)
}

// MarkSignalled records the candle and zone of an emitted signal.
func (m *Manager) MarkSignalled(candle, zoneTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LastSignalCandle = candle
	m.state.LastSignalZoneTime = zoneTime
	m.save()
}

// LastUpdateID is the id of the last Telegram update consumed.
func (m *Manager) LastUpdateID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LastUpdateID
}

// SetLastUpdateID advances the Telegram offset.
func (m *Manager) SetLastUpdateID(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == m.state.LastUpdateID {
		return
	}
	m.state.LastUpdateID = id
	m.save()
}

// save must be called with mu held.
func (m *Manager) save() {
	if m.filePath == "" {
		return
	}
	if err := SaveState(m.filePath, m.state); err != nil {
		m.log.Error().Err(err).Str("path", m.filePath).Msg("failed to save state")
	}
}

package recorder

import "XauSentinel/internal/model"

// Recorder persists emitted signals for later review.
type Recorder interface {
	RecordSignal(sig *model.Signal) error
	Close() error
}

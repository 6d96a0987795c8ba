package testsupport

import (
	"sync"

	"inkwell/internal/session"
)

// StageUpdate is one captured reporter notification.
type StageUpdate struct {
	SessionID string
	StageID   string
	Status    session.StageStatus
	Progress  float64
}

// CaptureReporter records every stage notification for assertion.
type CaptureReporter struct {
	mu      sync.Mutex
	updates []StageUpdate
}

func (r *CaptureReporter) OnStageUpdate(sessionID, stageID string, status session.StageStatus, progress float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, StageUpdate{
		SessionID: sessionID,
		StageID:   stageID,
		Status:    status,
		Progress:  progress,
	})
}

// Updates returns a copy of the captured notifications.
func (r *CaptureReporter) Updates() []StageUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StageUpdate, len(r.updates))
	copy(out, r.updates)
	return out
}

// Last returns the most recent notification for the stage, if any.
func (r *CaptureReporter) Last(stageID string) (StageUpdate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.updates) - 1; i >= 0; i-- {
		if r.updates[i].StageID == stageID {
			return r.updates[i], true
		}
	}
	return StageUpdate{}, false
}

package pipeline

import (
	"log/slog"
	"sync"

	"inkwell/internal/logging"
	"inkwell/internal/session"
	"inkwell/internal/stage"
)

// Reporter receives stage lifecycle notifications as the orchestrator
// advances a session. Implementations must tolerate concurrent calls
// from different sessions.
type Reporter interface {
	OnStageUpdate(sessionID, stageID string, status session.StageStatus, progress float64)
}

// NopReporter discards all notifications.
type NopReporter struct{}

func (NopReporter) OnStageUpdate(string, string, session.StageStatus, float64) {}

// LogReporter writes stage transitions to the structured log.
type LogReporter struct {
	Logger *slog.Logger
}

func (r LogReporter) OnStageUpdate(sessionID, stageID string, status session.StageStatus, progress float64) {
	if r.Logger == nil {
		return
	}
	r.Logger.Info("stage update",
		logging.String(logging.FieldSessionID, sessionID),
		logging.String(logging.FieldStage, stageID),
		logging.String("status", string(status)),
		logging.Float64("progress", progress),
	)
}

// Aggregate computes the weighted overall progress of a session from
// its per-stage progress values. Stages missing from the registry
// contribute nothing.
func Aggregate(sess *session.Session) float64 {
	var total float64
	for _, d := range stage.All() {
		result := sess.Stage(d.ID)
		if result == nil {
			continue
		}
		total += result.Progress * float64(d.Weight) / 100
	}
	if total > 100 {
		total = 100
	}
	return total
}

// monotonicProgress clamps session progress so it never moves backward
// while a run is in flight.
type monotonicProgress struct {
	mu   sync.Mutex
	seen map[string]float64
}

func newMonotonicProgress() *monotonicProgress {
	return &monotonicProgress{seen: make(map[string]float64)}
}

// Observe returns the clamped progress for the session.
func (m *monotonicProgress) Observe(sessionID string, progress float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.seen[sessionID]; ok && progress < prev {
		return prev
	}
	m.seen[sessionID] = progress
	return progress
}

// Forget drops tracking state once a session reaches a terminal status.
func (m *monotonicProgress) Forget(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, sessionID)
}

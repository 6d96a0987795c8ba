package session

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps sessions in memory. It backs ephemeral runs when the
// SQLite store is unavailable and serves as the store fake in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// CreateErr and UpdateErr, when set, are returned by the respective
	// methods. Tests use these to simulate storage failures.
	CreateErr error
	UpdateErr error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Create stores a snapshot of the session.
func (m *MemoryStore) Create(_ context.Context, sess *Session) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess.Snapshot()
	return nil
}

// Update replaces the stored snapshot for the session.
func (m *MemoryStore) Update(_ context.Context, sess *Session) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sess.ID]; !ok {
		return ErrNotFound
	}
	m.sessions[sess.ID] = sess.Snapshot()
	return nil
}

// Get returns a snapshot of the stored session or ErrNotFound.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess.Snapshot(), nil
}

// List returns stored sessions, newest first.
func (m *MemoryStore) List(_ context.Context) ([]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess.Snapshot())
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// Health summarizes stored sessions by status.
func (m *MemoryStore) Health(_ context.Context) (HealthSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var summary HealthSummary
	for _, sess := range m.sessions {
		summary.Total++
		switch sess.Status {
		case StatusCreated:
			summary.Created++
		case StatusRunning:
			summary.Running++
		case StatusCompleted:
			summary.Completed++
		case StatusFailed:
			summary.Failed++
		}
	}
	return summary, nil
}

package session

import "context"

// Store is the persistence contract consumed by the pipeline. All
// errors from Create and Update are non-fatal to an in-progress run:
// the orchestrator logs them and continues with in-memory state.
type Store interface {
	// Create persists a new session. The session id is assigned by the caller.
	Create(ctx context.Context, sess *Session) error
	// Update persists the current state of an existing session.
	Update(ctx context.Context, sess *Session) error
	// Get returns the stored session or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)
	// List returns stored sessions ordered by creation time, newest first.
	List(ctx context.Context) ([]*Session, error)
	// Health summarizes stored sessions by lifecycle state.
	Health(ctx context.Context) (HealthSummary, error)
}

package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks submissions rejected before a session exists.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotReady marks result lookups against a session still running.
	ErrNotReady = errors.New("session not finished")
	// ErrSessionFailed marks result lookups against a failed session.
	ErrSessionFailed = errors.New("session failed")
	// ErrNotRunning marks cancel calls against a session with no live run.
	ErrNotRunning = errors.New("session not running")
	// ErrStorage marks failures reading or writing the session store.
	ErrStorage = errors.New("storage error")
)

func invalidRequest(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}

func storageFailure(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, operation, err)
}

package session

import "errors"

// ErrNotFound indicates no session exists for the requested id.
var ErrNotFound = errors.New("session not found")

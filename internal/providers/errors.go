package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Error is the failure type returned by every gateway method. Retryable
// is advisory: the orchestrator treats both classes identically and any
// retrying happens inside the adapter before the error surfaces.
type Error struct {
	Capability string
	Message    string
	Retryable  bool
	Err        error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 2)
	if capability := strings.TrimSpace(e.Capability); capability != "" {
		parts = append(parts, capability)
	}
	if message := strings.TrimSpace(e.Message); message != "" {
		parts = append(parts, message)
	}
	detail := strings.Join(parts, ": ")
	if detail == "" {
		detail = "provider failure"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", detail, e.Err)
	}
	return detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a provider error for the given capability.
func NewError(capability, message string, retryable bool, err error) *Error {
	return &Error{Capability: capability, Message: message, Retryable: retryable, Err: err}
}

// IsRetryable reports whether an error is a provider error marked retryable.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}
	return false
}

// FromContextErr converts a context cancellation or deadline into a
// provider error so cancellation is modeled like any other provider
// failure at the stage boundary.
func FromContextErr(capability string, err error) *Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewError(capability, "call timed out", true, err)
	case errors.Is(err, context.Canceled):
		return NewError(capability, "call canceled", false, err)
	default:
		return NewError(capability, "call failed", false, err)
	}
}

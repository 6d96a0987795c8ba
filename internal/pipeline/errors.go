package pipeline

import (
	"errors"
	"fmt"
)

// StageError records the failure of a single stage. Mandatory reports
// whether the failure aborted the whole pipeline.
type StageError struct {
	StageID   string
	Mandatory bool
	Err       error
}

func (e *StageError) Error() string {
	kind := "optional"
	if e.Mandatory {
		kind = "mandatory"
	}
	return fmt.Sprintf("%s stage %s failed: %v", kind, e.StageID, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// PipelineError is returned by Run when a mandatory stage failure ends
// the session.
type PipelineError struct {
	SessionID string
	StageID   string
	Err       error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("session %s failed at stage %s: %v", e.SessionID, e.StageID, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// FailedStageID extracts the failing stage from a pipeline error chain,
// or returns the empty string.
func FailedStageID(err error) string {
	var pipeErr *PipelineError
	if errors.As(err, &pipeErr) {
		return pipeErr.StageID
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.StageID
	}
	return ""
}

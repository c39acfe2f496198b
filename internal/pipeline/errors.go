package pipeline

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures that can escape the pipeline.
type ErrorKind string

const (
	// KindValidation marks missing or malformed required input. Not retryable.
	KindValidation ErrorKind = "validation"
	// KindUpstreamTimeout marks an analysis job whose polling budget ran out.
	KindUpstreamTimeout ErrorKind = "upstream_timeout"
	// KindUpstreamFailure marks a failure reported by or while reaching the
	// document analysis provider.
	KindUpstreamFailure ErrorKind = "upstream_failure"
	// KindInsight marks a failure of the enrichment stage as a whole.
	KindInsight ErrorKind = "insight"
	// KindCancelled marks a request abandoned because its context ended.
	KindCancelled ErrorKind = "cancelled"
)

// PipelineError carries a structured kind alongside the message so callers can
// branch on the failure class without parsing text.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// newError builds a PipelineError with a formatted message.
func newError(kind ErrorKind, err error, format string, args ...interface{}) *PipelineError {
	return &PipelineError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the error kind, or an empty string for foreign errors.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

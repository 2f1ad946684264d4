package services

import "errors"

// Error taxonomy for the content lifecycle. Handlers translate these to
// HTTP status codes with errors.Is; services wrap them with detail via
// fmt.Errorf("...: %w", ...).
var (
	// ErrValidation indicates malformed or missing required input.
	// No side effects have occurred.
	ErrValidation = errors.New("validation failed")

	// ErrNotConfigured indicates the completion backend has no usable
	// credential. A server-side configuration fault, never retried.
	ErrNotConfigured = errors.New("completion service not configured")

	// ErrUpstream indicates the completion service or a URL fetch
	// failed, timed out, or returned unusable output. Nothing is
	// persisted when this is returned.
	ErrUpstream = errors.New("upstream request failed")

	// ErrNotFound indicates the target record does not exist for this
	// caller. A record owned by someone else produces the identical
	// signal.
	ErrNotFound = errors.New("content not found")

	// ErrStorage indicates a persistence layer failure.
	ErrStorage = errors.New("storage failure")
)

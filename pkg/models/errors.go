package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidTransition is returned when a run status change is not in the
// transition table.
var ErrInvalidTransition = errors.New("invalid run status transition")

// SourceUnavailableError means the source could not be reached or kept
// returning server errors after retries. The run records it and moves on.
type SourceUnavailableError struct {
	SourceID string
	Err      error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.SourceID, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// SourceFormatChangedError means the source responded but its payload no
// longer parses, usually an upstream markup or schema change.
type SourceFormatChangedError struct {
	SourceID string
	Detail   string
}

func (e *SourceFormatChangedError) Error() string {
	return fmt.Sprintf("source %s format changed: %s", e.SourceID, e.Detail)
}

// NormalizationError drops a single raw posting from the pipeline, counted
// but never fatal to the run.
type NormalizationError struct {
	SourceID string
	Reason   string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize posting from %s: %s", e.SourceID, e.Reason)
}

// DnsLookupTimeoutError means an MX lookup did not answer in time. The
// address stays unverified; confidence is neither boosted nor penalized.
type DnsLookupTimeoutError struct {
	Domain string
}

func (e *DnsLookupTimeoutError) Error() string {
	return fmt.Sprintf("dns lookup timed out for %s", e.Domain)
}

// InvalidProfileError wraps validator output for candidate profiles.
type InvalidProfileError struct {
	Err error
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid candidate profile: %v", e.Err)
}

func (e *InvalidProfileError) Unwrap() error { return e.Err }

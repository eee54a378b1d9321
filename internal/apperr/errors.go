// Package apperr defines the error taxonomy shared by the sonar pipeline
// and the HTTP trigger.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnauthenticated means the caller presented no valid identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrBriefNotFound means the brief does not exist or is not owned by the caller.
	ErrBriefNotFound = errors.New("brief not found")

	// ErrInvalidRequest means the trigger request was malformed.
	ErrInvalidRequest = errors.New("invalid request")
)

// RateLimitError is returned when a caller exceeds its trigger quota.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter.Round(time.Second))
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, minimum 1.
func (e *RateLimitError) RetryAfterSeconds() int {
	secs := int((e.RetryAfter + time.Second - 1) / time.Second)
	return max(secs, 1)
}

// UpstreamSearchError wraps a failure of one search query.
type UpstreamSearchError struct {
	Query string
	Err   error
}

func (e *UpstreamSearchError) Error() string {
	return fmt.Sprintf("search %q: %v", e.Query, e.Err)
}

func (e *UpstreamSearchError) Unwrap() error { return e.Err }

// UpstreamProfileError wraps a failed profile fetch for one candidate.
type UpstreamProfileError struct {
	Username string
	Err      error
}

func (e *UpstreamProfileError) Error() string {
	return fmt.Sprintf("profile %s: %v", e.Username, e.Err)
}

func (e *UpstreamProfileError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed write for one candidate.
type PersistenceError struct {
	Username string
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.Username == "" {
		return fmt.Sprintf("persist: %v", e.Err)
	}
	return fmt.Sprintf("persist %s: %v", e.Username, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

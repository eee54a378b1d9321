// Package ratelimit implements the caller-scoped fixed-window limiter that
// gates the pipeline trigger.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of one Check.
type Result struct {
	// Success reports whether the call is within the limit.
	Success bool

	// Remaining is the number of calls left in the current window.
	Remaining int

	// Reset is when the current window ends.
	Reset time.Time
}

// RetryAfter returns how long until the window resets, as of now.
func (r Result) RetryAfter(now time.Time) time.Duration {
	return max(r.Reset.Sub(now), 0)
}

// Limiter counts calls per key in fixed windows.
type Limiter interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

var (
	_ Limiter = (*Memory)(nil)
	_ Limiter = (*Redis)(nil)
)

// result builds a Result for the count-th call of a window ending at reset.
func result(count int64, limit int, reset time.Time) Result {
	return Result{
		Success:   count <= int64(limit),
		Remaining: max(limit-int(count), 0),
		Reset:     reset,
	}
}

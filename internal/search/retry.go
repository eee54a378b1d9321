package search

import (
	"context"
	"net/http"
	"time"
)

type attemptFunc func() (status int, body []byte, err error)

// doWithRetry retries fn on transport errors, 429 and 5xx with exponential
// backoff. The last status, body and error are returned.
func doWithRetry(ctx context.Context, attempts int, delay time.Duration, fn attemptFunc) (int, []byte, error) {
	if attempts <= 0 {
		attempts = 1
	}
	var (
		status int
		body   []byte
		err    error
	)
	for i := 0; i < attempts; i++ {
		status, body, err = fn()
		if err == nil && status != http.StatusTooManyRequests && status < 500 {
			return status, body, nil
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return status, body, ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return status, body, err
}

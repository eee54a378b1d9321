package ghclient

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spiffcs/sonar/internal/constants"
	"github.com/spiffcs/sonar/internal/log"
)

// ErrRateLimited is returned when the GitHub API quota is exhausted.
var ErrRateLimited = errors.New("github rate limit exceeded")

// quotaState tracks the most recent quota reported by GitHub.
type quotaState struct {
	mu        sync.RWMutex
	limited   bool
	resetAt   time.Time
	remaining int
	limit     int
}

func (s *quotaState) isLimited(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limited && now.Before(s.resetAt)
}

func (s *quotaState) update(remaining, limit int, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = remaining
	s.limit = limit
	s.resetAt = resetAt
	s.limited = remaining == 0
}

func (s *quotaState) setLimited(resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limited = true
	s.resetAt = resetAt
}

// Quota is a point-in-time view of the GitHub core quota.
type Quota struct {
	Remaining int
	Limit     int
	ResetAt   time.Time
	Limited   bool
}

func (s *quotaState) snapshot(now time.Time) Quota {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Quota{
		Remaining: s.remaining,
		Limit:     s.limit,
		ResetAt:   s.resetAt,
		Limited:   s.limited && now.Before(s.resetAt),
	}
}

// rateLimitTransport fails fast once GitHub reports an exhausted quota so
// the remaining candidates of a run are dropped instead of hammering the API.
type rateLimitTransport struct {
	base  http.RoundTripper
	state *quotaState
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.state.isLimited(time.Now()) {
		return nil, ErrRateLimited
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		t.state.update(remaining, limit, resetAt)
	}
	if remaining > 0 && remaining <= constants.RateLimitLowWatermark {
		log.Debug("github quota low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
	}

	if resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0") {
		if resetAt.IsZero() {
			resetAt = time.Now().Add(time.Minute)
		}
		t.state.setLimited(resetAt)
		_ = resp.Body.Close()
		return nil, ErrRateLimited
	}

	return resp, nil
}

// parseRateLimitHeaders extracts rate limit info from response headers.
// Missing values are reported as -1.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if v := resp.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			remaining = n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			resetAt = time.Unix(ts, 0)
		}
	}
	return remaining, limit, resetAt
}

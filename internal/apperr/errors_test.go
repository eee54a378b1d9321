package apperr

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 1},
		{200 * time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{42 * time.Second, 42},
	}
	for _, tt := range tests {
		e := &RateLimitError{RetryAfter: tt.in}
		if got := e.RetryAfterSeconds(); got != tt.want {
			t.Errorf("RetryAfterSeconds(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")

	wrapped := fmt.Errorf("run: %w", &PersistenceError{Username: "octocat", Err: cause})
	var pe *PersistenceError
	if !errors.As(wrapped, &pe) {
		t.Fatal("errors.As(PersistenceError) = false, want true")
	}
	if pe.Username != "octocat" {
		t.Errorf("Username = %q, want octocat", pe.Username)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is(cause) = false, want true")
	}

	se := &UpstreamSearchError{Query: "rust developer", Err: cause}
	if !errors.Is(se, cause) {
		t.Error("UpstreamSearchError does not unwrap to cause")
	}
}

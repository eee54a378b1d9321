package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int64
}

// Memory is an in-process fixed-window limiter for single-instance
// deployments and tests.
type Memory struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemory creates an empty in-memory limiter.
func NewMemory() *Memory {
	return &Memory{windows: map[string]*window{}, now: time.Now}
}

// Check implements Limiter.
func (m *Memory) Check(_ context.Context, key string, limit int, win time.Duration) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.start.Add(win)) {
		w = &window{start: now}
		m.windows[key] = w
	}
	w.count++
	m.prune(now, win)
	return result(w.count, limit, w.start.Add(win)), nil
}

// prune drops expired windows. Caller holds mu.
func (m *Memory) prune(now time.Time, win time.Duration) {
	for k, w := range m.windows {
		if !now.Before(w.start.Add(win)) {
			delete(m.windows, k)
		}
	}
}

// Package memory is an in-process store used for offline runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spiffcs/sonar/internal/model"
	"github.com/spiffcs/sonar/internal/store"
)

// Store keeps briefs and results in memory. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	briefs  map[string]model.Brief
	results map[string][]model.SonarResult
	now     func() time.Time
}

var _ store.Store = (*Store)(nil)

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source for createdAt and lastSearchAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		briefs:  map[string]model.Brief{},
		results: map[string][]model.SonarResult{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutBrief adds or replaces a brief. An empty ID is assigned a new UUID.
func (s *Store) PutBrief(b model.Brief) model.Brief {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	s.briefs[b.ID] = b
	return b
}

// ReadBrief implements store.Store.
func (s *Store) ReadBrief(_ context.Context, id, ownerID string) (*model.Brief, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.briefs[id]
	if !ok || b.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

// ListExistingResultUsernames implements store.Store.
func (s *Store) ListExistingResultUsernames(_ context.Context, briefID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.results[briefID]
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Username)
	}
	return out, nil
}

// InsertResult implements store.Store.
func (s *Store) InsertResult(_ context.Context, briefID string, c model.ScoredCandidate, searchDescription string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results[briefID] {
		if strings.EqualFold(r.Username, c.Username) {
			return false, nil
		}
	}
	r := model.NewSonarResult(briefID, c)
	r.ID = uuid.NewString()
	r.SearchDescription = searchDescription
	r.CreatedAt = s.now()
	s.results[briefID] = append(s.results[briefID], r)
	return true, nil
}

// MarkBriefSearched implements store.Store.
func (s *Store) MarkBriefSearched(_ context.Context, briefID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.briefs[briefID]
	if !ok {
		return store.ErrNotFound
	}
	now := s.now()
	b.LastSearchAt = &now
	s.briefs[briefID] = b
	return nil
}

// ListResults implements store.Store.
func (s *Store) ListResults(_ context.Context, briefID string, filter store.ResultFilter) ([]model.SonarResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.SonarResult{}
	for _, r := range s.results[briefID] {
		if filter.Match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

package profile

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spiffcs/sonar/internal/apperr"
	"github.com/spiffcs/sonar/internal/cache"
	"github.com/spiffcs/sonar/internal/log"
	"github.com/spiffcs/sonar/internal/model"
)

// Enricher fetches and derives metrics for one identifier at a time.
type Enricher struct {
	source Source
	cache  cache.Cacher
	now    func() time.Time
}

// Option customizes an Enricher.
type Option func(*Enricher)

// WithCache enables snapshot caching.
func WithCache(c cache.Cacher) Option {
	return func(e *Enricher) { e.cache = c }
}

// WithClock overrides the time source used for derived metrics.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) { e.now = now }
}

// NewEnricher creates an enricher reading from source.
func NewEnricher(source Source, opts ...Option) *Enricher {
	e := &Enricher{source: source, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enrich returns the derived profile for username. It reports false when
// the profile itself could not be fetched; the candidate is then dropped.
func (e *Enricher) Enrich(ctx context.Context, username string) (*model.CandidateProfile, bool) {
	snap, ok := e.snapshot(ctx, username)
	if !ok {
		return nil, false
	}
	p := Derive(snap, e.now())
	return &p, true
}

func (e *Enricher) snapshot(ctx context.Context, username string) (*model.ProfileSnapshot, bool) {
	if e.cache != nil {
		if snap, ok := e.cache.Get(username); ok {
			log.Debug("profile cache hit", "username", username)
			return snap, true
		}
	}

	snap, complete, err := e.fetch(ctx, username)
	if err != nil {
		log.Info("dropping candidate", "error", &apperr.UpstreamProfileError{Username: username, Err: err})
		return nil, false
	}

	if e.cache != nil && complete {
		if err := e.cache.Set(username, snap); err != nil {
			log.Debug("failed to cache profile", "username", username, "error", err)
		}
	}
	return snap, true
}

// fetch issues the profile, repo and event requests concurrently and joins
// them. Only a profile failure is an error; repo and event failures degrade
// to empty lists and are reported through complete=false.
func (e *Enricher) fetch(ctx context.Context, username string) (*model.ProfileSnapshot, bool, error) {
	var (
		user                       *model.UserRecord
		repos                      []model.RepoRecord
		events                     []model.EventRecord
		userErr, repoErr, eventErr error
		g                          errgroup.Group
	)

	g.Go(func() error {
		user, userErr = e.source.GetUser(ctx, username)
		return nil
	})
	g.Go(func() error {
		repos, repoErr = e.source.ListRepos(ctx, username)
		return nil
	})
	g.Go(func() error {
		events, eventErr = e.source.ListEvents(ctx, username)
		return nil
	})
	_ = g.Wait()

	if userErr != nil {
		return nil, false, userErr
	}

	complete := true
	if repoErr != nil {
		log.Debug("repo fetch failed, continuing without repos", "username", username, "error", repoErr)
		repos = nil
		complete = false
	}
	if eventErr != nil {
		log.Debug("event fetch failed, continuing without events", "username", username, "error", eventErr)
		events = nil
		complete = false
	}

	return &model.ProfileSnapshot{
		User:      *user,
		Repos:     repos,
		Events:    events,
		FetchedAt: e.now(),
	}, complete, nil
}

// Package aggregate filters, ranks, truncates and persists the scored
// candidates of one pipeline run.
package aggregate

import (
	"context"
	"fmt"
	"sort"

	"github.com/spiffcs/sonar/internal/apperr"
	"github.com/spiffcs/sonar/internal/constants"
	"github.com/spiffcs/sonar/internal/log"
	"github.com/spiffcs/sonar/internal/model"
)

// Persister is the write side of the persistence collaborator.
type Persister interface {
	// InsertResult stores c for briefID. It reports false when a result for
	// the same (briefID, lowercase username) already exists.
	InsertResult(ctx context.Context, briefID string, c model.ScoredCandidate, searchDescription string) (bool, error)
	MarkBriefSearched(ctx context.Context, briefID string) error
}

// Summary describes the outcome of one aggregation.
type Summary struct {
	NewCandidatesPersisted   int `json:"newCandidates"`
	TotalIdentifiersExamined int `json:"searchedProfiles"`

	// Qualified is the number of candidates at or above the threshold
	// before truncation.
	Qualified int `json:"qualified"`
	Failed    int `json:"failed"`

	// Persisted holds the newly stored candidates, highest score first.
	Persisted []model.ScoredCandidate `json:"-"`
}

// Aggregator applies the threshold and cap and writes retained candidates.
type Aggregator struct {
	store      Persister
	threshold  int
	maxResults int
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithThreshold sets the minimum score to persist.
func WithThreshold(n int) Option {
	return func(a *Aggregator) { a.threshold = n }
}

// WithMaxResults caps how many candidates are persisted per run.
func WithMaxResults(n int) Option {
	return func(a *Aggregator) { a.maxResults = n }
}

// NewAggregator creates an aggregator writing to store.
func NewAggregator(store Persister, opts ...Option) *Aggregator {
	a := &Aggregator{
		store:      store,
		threshold:  constants.ScoreThreshold,
		maxResults: constants.MaxResults,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Rank returns the candidates scoring at least threshold, highest first.
// Equal scores keep their input (discovery) order.
func Rank(scored []model.ScoredCandidate, threshold int) []model.ScoredCandidate {
	kept := make([]model.ScoredCandidate, 0, len(scored))
	for _, c := range scored {
		if c.Score >= threshold {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	return kept
}

// Aggregate ranks scored, persists the top candidates and marks the brief
// as searched. Writes are best effort: a failed insert is logged and the
// rest continue. An error is returned only when every attempted insert
// failed or the brief could not be marked; the brief is marked either way.
func (a *Aggregator) Aggregate(ctx context.Context, briefID string, scored []model.ScoredCandidate, examined int) (Summary, error) {
	ranked := Rank(scored, a.threshold)
	summary := Summary{
		TotalIdentifiersExamined: examined,
		Qualified:                len(ranked),
		Persisted:                []model.ScoredCandidate{},
	}
	if len(ranked) > a.maxResults {
		ranked = ranked[:a.maxResults]
	}

	var firstErr error
	for _, c := range ranked {
		inserted, err := a.store.InsertResult(ctx, briefID, c, c.SearchDescription)
		if err != nil {
			perr := &apperr.PersistenceError{Username: c.Username, Err: err}
			log.Error("failed to persist result", "brief_id", briefID, "error", perr)
			summary.Failed++
			if firstErr == nil {
				firstErr = perr
			}
			continue
		}
		if !inserted {
			log.Debug("result already exists", "brief_id", briefID, "username", c.Username)
			continue
		}
		summary.NewCandidatesPersisted++
		summary.Persisted = append(summary.Persisted, c)
	}

	markErr := a.store.MarkBriefSearched(ctx, briefID)

	if summary.Failed > 0 && summary.Failed == len(ranked) {
		return summary, firstErr
	}
	if markErr != nil {
		return summary, fmt.Errorf("mark brief %s searched: %w", briefID, markErr)
	}
	return summary, nil
}

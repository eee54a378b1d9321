// Package store defines the persistence collaborator of the sonar pipeline.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/spiffcs/sonar/internal/model"
)

// ErrNotFound is returned when a brief does not exist or belongs to
// another owner.
var ErrNotFound = errors.New("not found")

// Store reads briefs and writes sonar results.
type Store interface {
	// ReadBrief returns the brief id owned by ownerID, or ErrNotFound.
	ReadBrief(ctx context.Context, id, ownerID string) (*model.Brief, error)

	// ListExistingResultUsernames returns every username already persisted
	// for briefID.
	ListExistingResultUsernames(ctx context.Context, briefID string) ([]string, error)

	// InsertResult stores c for briefID. It reports false when a result for
	// the same (briefID, lowercase username) already exists.
	InsertResult(ctx context.Context, briefID string, c model.ScoredCandidate, searchDescription string) (bool, error)

	// MarkBriefSearched sets the brief's lastSearchAt to now.
	MarkBriefSearched(ctx context.Context, briefID string) error

	// ListResults returns persisted results for briefID, highest score first.
	ListResults(ctx context.Context, briefID string, filter ResultFilter) ([]model.SonarResult, error)
}

// ResultFilter narrows ListResults.
type ResultFilter struct {
	// Status keeps only results with this status when non-empty.
	Status model.ResultStatus

	// Since keeps only results created at or after this time when non-zero.
	Since time.Time
}

// Match reports whether r passes the filter.
func (f ResultFilter) Match(r model.SonarResult) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if !f.Since.IsZero() && r.CreatedAt.Before(f.Since) {
		return false
	}
	return true
}

// Pinger is implemented by stores with a remote backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Package sonar runs the candidate discovery pipeline for one brief:
// plan queries, discover identifiers, enrich, score, aggregate.
package sonar

import (
	"context"

	"github.com/spiffcs/sonar/internal/aggregate"
	"github.com/spiffcs/sonar/internal/model"
	"github.com/spiffcs/sonar/internal/planner"
	"github.com/spiffcs/sonar/internal/profile"
	"github.com/spiffcs/sonar/internal/search"
)

// Store is the subset of store.Store the pipeline reads and writes.
type Store interface {
	ReadBrief(ctx context.Context, id, ownerID string) (*model.Brief, error)
	ListExistingResultUsernames(ctx context.Context, briefID string) ([]string, error)
	aggregate.Persister
}

// Planner turns a brief into ordered queries.
type Planner interface {
	Plan(b model.Brief) []planner.Query
}

// Discoverer turns queries into a deduplicated, capped identifier list.
type Discoverer interface {
	Discover(ctx context.Context, queries []planner.Query, existing []string) []search.Discovery
}

// Enricher derives a profile for one identifier; false drops the candidate.
type Enricher interface {
	Enrich(ctx context.Context, username string) (*model.CandidateProfile, bool)
}

// Runner runs the pipeline for a caller-owned brief. The HTTP trigger
// depends on this rather than on *Pipeline.
type Runner interface {
	Run(ctx context.Context, briefID, ownerID string) (*Result, error)
}

var (
	_ Planner    = (*planner.Planner)(nil)
	_ Discoverer = (*search.Adapter)(nil)
	_ Enricher   = (*profile.Enricher)(nil)
	_ Runner     = (*Pipeline)(nil)
)

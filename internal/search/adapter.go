package search

import (
	"context"
	"strings"

	"github.com/spiffcs/sonar/internal/apperr"
	"github.com/spiffcs/sonar/internal/constants"
	"github.com/spiffcs/sonar/internal/log"
	"github.com/spiffcs/sonar/internal/planner"
)

// Discovery is an identifier together with the query that first surfaced it.
type Discovery struct {
	Username string
	Query    string
}

// Adapter turns planned queries into a deduplicated, capped identifier list.
type Adapter struct {
	provider      Provider
	maxQueries    int
	numResults    int
	maxCandidates int
}

// AdapterOption customizes an Adapter.
type AdapterOption func(*Adapter)

// WithMaxQueries caps how many planned queries are issued. Values below 1
// keep the default.
func WithMaxQueries(n int) AdapterOption {
	return func(a *Adapter) {
		if n > 0 {
			a.maxQueries = n
		}
	}
}

// WithNumResults sets the number of results requested per query. Values
// below 1 keep the default.
func WithNumResults(n int) AdapterOption {
	return func(a *Adapter) {
		if n > 0 {
			a.numResults = n
		}
	}
}

// WithMaxCandidates caps how many identifiers are returned. Values below 1
// keep the default.
func WithMaxCandidates(n int) AdapterOption {
	return func(a *Adapter) {
		if n > 0 {
			a.maxCandidates = n
		}
	}
}

// NewAdapter creates an adapter over provider.
func NewAdapter(provider Provider, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		provider:      provider,
		maxQueries:    constants.MaxQueries,
		numResults:    constants.SearchNumResults,
		maxCandidates: constants.MaxCandidates,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Discover runs queries in order and collects identifiers not already in
// existing (compared case-insensitively). A failing query is logged and
// skipped. Discovery stops once maxCandidates identifiers are collected.
func (a *Adapter) Discover(ctx context.Context, queries []planner.Query, existing []string) []Discovery {
	seen := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		seen[strings.ToLower(u)] = struct{}{}
	}

	if len(queries) > a.maxQueries {
		queries = queries[:a.maxQueries]
	}

	var found []Discovery
	for _, q := range queries {
		if len(found) >= a.maxCandidates {
			break
		}

		results, err := a.provider.Search(ctx, q.Text, Options{NumResults: a.numResults, Domain: q.Domain})
		if err != nil {
			log.Warn("search query failed, skipping", "error", &apperr.UpstreamSearchError{Query: q.Text, Err: err})
			continue
		}

		added := 0
		for _, r := range results {
			id, ok := ParseIdentifier(r.URL, q.Domain)
			if !ok {
				log.Trace("ignoring search result", "url", r.URL)
				continue
			}
			key := strings.ToLower(id)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			found = append(found, Discovery{Username: id, Query: q.Text})
			added++
		}
		log.Debug("query processed", "query", q.Text, "results", len(results), "new_identifiers", added)
	}

	if len(found) > a.maxCandidates {
		found = found[:a.maxCandidates]
	}
	return found
}

// Package constants provides a centralized location for the limits,
// thresholds and TTLs used throughout the sonar pipeline.
package constants

import "time"

// Query planning constants
const (
	// DescriptionQueryMaxChars is the number of description characters
	// used for the broad description query.
	DescriptionQueryMaxChars = 200

	// SkillQueryMaxSkills is the number of required skills joined into
	// the skills query.
	SkillQueryMaxSkills = 3

	// MaxQueries is the maximum number of queries issued per run.
	MaxQueries = 3
)

// Discovery constants
const (
	// SearchNumResults is the number of results requested per query.
	SearchNumResults = 20

	// SearchDomain is the site every query is restricted to.
	SearchDomain = "github.com"

	// MaxCandidates caps how many identifiers proceed to enrichment.
	MaxCandidates = 20

	// SearchRetryAttempts bounds retries of a transient search failure.
	SearchRetryAttempts = 2

	// SearchRetryDelay is the initial backoff between search attempts.
	SearchRetryDelay = 500 * time.Millisecond
)

// Enrichment constants
const (
	// RepoFetchLimit is the maximum number of repositories fetched per candidate.
	RepoFetchLimit = 100

	// EventFetchLimit is the maximum number of events fetched per candidate.
	EventFetchLimit = 100

	// ActivityWindow is the lookback used for activity level and
	// recently active repositories.
	ActivityWindow = 30 * 24 * time.Hour

	// MaxLanguages is the number of entries kept in a language breakdown.
	MaxLanguages = 8

	// MaxEnrichWorkers is the upper bound for concurrent candidate enrichment.
	MaxEnrichWorkers = 5
)

// Aggregation constants
const (
	// ScoreThreshold is the minimum score a candidate needs to be persisted.
	ScoreThreshold = 35

	// MaxResults caps how many candidates are persisted per run.
	MaxResults = 10
)

// Rate limiting constants
const (
	// TriggerRateLimit is the number of pipeline runs a caller may trigger
	// per TriggerRateWindow.
	TriggerRateLimit = 5

	// TriggerRateWindow is the fixed window for TriggerRateLimit.
	TriggerRateWindow = 60 * time.Second

	// RateLimitLowWatermark is the GitHub quota below which warnings are logged.
	RateLimitLowWatermark = 100
)

// Cache TTL constants
const (
	// ProfileCacheTTL is the maximum age of a cached profile snapshot.
	ProfileCacheTTL = 6 * time.Hour
)

// Server constants
const (
	// DefaultListenAddr is the address the HTTP trigger listens on.
	DefaultListenAddr = ":8080"

	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout protects the server from slow clients.
	ReadHeaderTimeout = 10 * time.Second
)

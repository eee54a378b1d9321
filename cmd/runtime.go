package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spiffcs/sonar/config"
	"github.com/spiffcs/sonar/internal/aggregate"
	"github.com/spiffcs/sonar/internal/cache"
	"github.com/spiffcs/sonar/internal/constants"
	"github.com/spiffcs/sonar/internal/ghclient"
	"github.com/spiffcs/sonar/internal/history"
	"github.com/spiffcs/sonar/internal/log"
	"github.com/spiffcs/sonar/internal/planner"
	"github.com/spiffcs/sonar/internal/profile"
	"github.com/spiffcs/sonar/internal/ratelimit"
	"github.com/spiffcs/sonar/internal/scoring"
	"github.com/spiffcs/sonar/internal/search"
	"github.com/spiffcs/sonar/internal/sonar"
	"github.com/spiffcs/sonar/internal/store/postgres"
)

// setup loads configuration and initializes logging at verbosity.
func setup(verbosity int) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Initialize(verbosity, os.Stderr, log.WithFormat(log.Format(cfg.GetLogFormat())))
	return cfg, nil
}

// connectDB opens the postgres pool named by DATABASE_URL.
func connectDB(ctx context.Context, cfg *config.Config) (*postgres.DB, error) {
	url := cfg.GetDatabaseURL()
	if url == "" {
		return nil, fmt.Errorf("database not configured. Set the DATABASE_URL environment variable")
	}
	return postgres.Connect(ctx, url)
}

// newLimiter returns a Redis-backed limiter when REDIS_URL is set and an
// in-process one otherwise. The returned func releases the connection.
func newLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, *ratelimit.Redis, func(), error) {
	url := cfg.GetRedisURL()
	if url == "" {
		log.Info("REDIS_URL not set, using in-process rate limiter")
		return ratelimit.NewMemory(), nil, func() {}, nil
	}
	r, err := ratelimit.Connect(ctx, url)
	if err != nil {
		return nil, nil, nil, err
	}
	return r, r, func() {
		if err := r.Close(); err != nil {
			log.Debug("closing redis", "error", err)
		}
	}, nil
}

// buildPipeline wires every pipeline stage from configuration. workers
// overrides pipeline.enrich_workers when positive.
func buildPipeline(ctx context.Context, cfg *config.Config, st sonar.Store, workers int, extra ...sonar.Option) (*sonar.Pipeline, error) {
	sc := cfg.GetSearch()
	domain, err := search.NormalizeDomain(sc.Domain)
	if err != nil {
		return nil, fmt.Errorf("invalid search.domain: %w", err)
	}

	provider, err := search.NewClient(sc.Endpoint, cfg.GetSearchAPIKey(),
		search.WithRetry(sc.RetryAttempts, constants.SearchRetryDelay))
	if err != nil {
		return nil, err
	}

	token := cfg.GetGitHubToken()
	if token == "" {
		log.Warn("GITHUB_TOKEN not set, profile enrichment uses the anonymous quota")
	}
	gh, err := ghclient.NewClient(ctx, token, ghclient.WithBaseURL(cfg.GetGitHubBaseURL()))
	if err != nil {
		return nil, err
	}

	var enrichOpts []profile.Option
	if cc := cfg.GetCache(); cc.Enabled {
		c, err := cache.NewCache(cc.TTL)
		if err != nil {
			log.Warn("profile cache unavailable", "error", err)
		} else {
			enrichOpts = append(enrichOpts, profile.WithCache(c))
		}
	}

	p := cfg.GetPipeline()
	if workers <= 0 {
		workers = p.EnrichWorkers
	}

	adapter := search.NewAdapter(provider,
		search.WithMaxQueries(sc.MaxQueries),
		search.WithNumResults(sc.NumResults),
		search.WithMaxCandidates(p.MaxCandidates),
	)
	agg := aggregate.NewAggregator(st,
		aggregate.WithThreshold(p.ScoreThreshold),
		aggregate.WithMaxResults(p.MaxResults),
	)

	opts := append([]sonar.Option{sonar.WithWorkers(workers)}, extra...)
	return sonar.New(st, planner.New(domain), adapter, profile.NewEnricher(gh, enrichOpts...),
		scoring.NewHeuristics(cfg.GetScoreWeights()), agg, opts...), nil
}

// recordingRunner appends a history entry for every run it delegates.
type recordingRunner struct {
	next    sonar.Runner
	history *history.Store
	source  string
}

var _ sonar.Runner = (*recordingRunner)(nil)

func newRecordingRunner(next sonar.Runner, source string) sonar.Runner {
	h, err := history.NewStore()
	if err != nil {
		log.Debug("run history disabled", "error", err)
		return next
	}
	return &recordingRunner{next: next, history: h, source: source}
}

func (r *recordingRunner) Run(ctx context.Context, briefID, ownerID string) (*sonar.Result, error) {
	start := time.Now()
	res, err := r.next.Run(ctx, briefID, ownerID)

	if appendErr := r.history.Append(historyRun(briefID, r.source, start, res, err)); appendErr != nil {
		log.Debug("failed to record run", "error", appendErr)
	}
	return res, err
}

// historyRun converts a pipeline outcome into a history record.
func historyRun(briefID, source string, start time.Time, res *sonar.Result, err error) history.Run {
	run := history.Run{
		Timestamp:  start,
		BriefID:    briefID,
		Source:     source,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if res != nil {
		run.Queries = len(res.Queries)
		run.Discovered = len(res.Discovered)
		run.Scored = len(res.Scored)
		run.Qualified = res.Summary.Qualified
		run.Persisted = res.Summary.NewCandidatesPersisted
		run.Failed = res.Summary.Failed
		run.DurationMs = res.Duration.Milliseconds()
	}
	if err != nil {
		run.Error = err.Error()
	}
	return run
}

package sonar

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spiffcs/sonar/internal/aggregate"
	"github.com/spiffcs/sonar/internal/apperr"
	"github.com/spiffcs/sonar/internal/constants"
	"github.com/spiffcs/sonar/internal/log"
	"github.com/spiffcs/sonar/internal/model"
	"github.com/spiffcs/sonar/internal/planner"
	"github.com/spiffcs/sonar/internal/scoring"
	"github.com/spiffcs/sonar/internal/search"
	"github.com/spiffcs/sonar/internal/store"
)

// ProgressFunc is called as candidates finish enrichment and scoring.
type ProgressFunc func(completed, total int)

// Stage is one step of a pipeline run.
type Stage int

const (
	StagePlan Stage = iota
	StageDiscover
	StageEvaluate
	StageAggregate
)

// String returns the stage name used in logs.
func (s Stage) String() string {
	switch s {
	case StagePlan:
		return "plan"
	case StageDiscover:
		return "discover"
	case StageEvaluate:
		return "evaluate"
	case StageAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// StageFunc is called when a stage starts (done false) and when it
// finishes (done true). count is the stage's output size: queries planned,
// identifiers discovered, candidates scored or results persisted.
type StageFunc func(stage Stage, done bool, count int)

// Result describes one pipeline run.
type Result struct {
	BriefID    string
	Queries    []planner.Query
	Discovered []search.Discovery

	// Scored holds every candidate that survived enrichment, in discovery order.
	Scored  []model.ScoredCandidate
	Summary aggregate.Summary

	StartedAt time.Time
	Duration  time.Duration
}

// Pipeline wires the pipeline stages together.
type Pipeline struct {
	store      Store
	planner    Planner
	discoverer Discoverer
	enricher   Enricher
	scorer     scoring.Scorer
	aggregator *aggregate.Aggregator

	workers    int
	onProgress ProgressFunc
	onStage    StageFunc
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets how many candidates are enriched concurrently,
// clamped to [1, constants.MaxEnrichWorkers]. The default of 1 processes
// candidates sequentially.
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = min(max(n, 1), constants.MaxEnrichWorkers) }
}

// WithProgress registers a progress callback. It may be called from
// several goroutines.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) { p.onProgress = fn }
}

// WithStageHook registers a callback for stage transitions.
func WithStageHook(fn StageFunc) Option {
	return func(p *Pipeline) { p.onStage = fn }
}

// New creates a pipeline. Every collaborator is required.
func New(s Store, pl Planner, d Discoverer, e Enricher, sc scoring.Scorer, agg *aggregate.Aggregator, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:      s,
		planner:    pl,
		discoverer: d,
		enricher:   e,
		scorer:     sc,
		aggregator: agg,
		workers:    1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline for briefID on behalf of ownerID. It returns
// apperr.ErrBriefNotFound when the brief is missing or owned by someone else.
// Failed queries and dropped candidates only lower the reported counts.
func (p *Pipeline) Run(ctx context.Context, briefID, ownerID string) (*Result, error) {
	res := &Result{BriefID: briefID, StartedAt: time.Now()}

	brief, err := p.store.ReadBrief(ctx, briefID, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.ErrBriefNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read brief: %w", err)
	}
	if !brief.IsActive {
		log.Debug("running search for inactive brief", "brief_id", brief.ID)
	}

	existing, err := p.store.ListExistingResultUsernames(ctx, brief.ID)
	if err != nil {
		return nil, fmt.Errorf("list existing results: %w", err)
	}

	p.stage(StagePlan, false, 0)
	res.Queries = p.planner.Plan(*brief)
	p.stage(StagePlan, true, len(res.Queries))

	p.stage(StageDiscover, false, 0)
	res.Discovered = p.discoverer.Discover(ctx, res.Queries, existing)
	p.stage(StageDiscover, true, len(res.Discovered))
	log.Info("candidates discovered", "brief_id", brief.ID, "queries", len(res.Queries),
		"existing", len(existing), "discovered", len(res.Discovered))

	p.stage(StageEvaluate, false, 0)
	res.Scored = p.evaluate(ctx, brief, res.Discovered)
	p.stage(StageEvaluate, true, len(res.Scored))

	p.stage(StageAggregate, false, 0)
	summary, err := p.aggregator.Aggregate(ctx, brief.ID, res.Scored, len(res.Discovered))
	p.stage(StageAggregate, true, summary.NewCandidatesPersisted)
	res.Summary = summary
	res.Duration = time.Since(res.StartedAt)
	if err != nil {
		return res, err
	}

	log.Info("search complete", "brief_id", brief.ID,
		"searched_profiles", summary.TotalIdentifiersExamined,
		"qualified", summary.Qualified,
		"new_candidates", summary.NewCandidatesPersisted,
		"duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

// evaluate enriches and scores each discovery with at most p.workers in
// flight. Dropped candidates are omitted; the rest keep discovery order.
func (p *Pipeline) evaluate(ctx context.Context, brief *model.Brief, found []search.Discovery) []model.ScoredCandidate {
	slots := make([]*model.ScoredCandidate, len(found))
	total := len(found)
	var completed int32
	p.reportProgress(0, total)

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, d := range found {
		i, d := i, d
		g.Go(func() error {
			defer func() {
				p.reportProgress(int(atomic.AddInt32(&completed, 1)), total)
			}()

			prof, ok := p.enricher.Enrich(ctx, d.Username)
			if !ok {
				return nil
			}
			sc := p.scorer.Score(prof, brief)
			sc.SearchDescription = d.Query
			log.Trace("candidate scored", "username", sc.Username, "score", sc.Score,
				"reasons", sc.MatchReasons, "concerns", sc.Concerns)
			slots[i] = &sc
			return nil
		})
	}
	_ = g.Wait()

	scored := make([]model.ScoredCandidate, 0, len(found))
	for _, s := range slots {
		if s != nil {
			scored = append(scored, *s)
		}
	}
	return scored
}

func (p *Pipeline) stage(s Stage, done bool, count int) {
	if p.onStage != nil {
		p.onStage(s, done, count)
	}
}

func (p *Pipeline) reportProgress(completed, total int) {
	if p.onProgress != nil {
		p.onProgress(completed, total)
	}
}

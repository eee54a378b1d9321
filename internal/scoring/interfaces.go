package scoring

import "github.com/spiffcs/sonar/internal/model"

// Scorer rates a candidate against a brief. Implementations must be pure.
type Scorer interface {
	Score(p *model.CandidateProfile, b *model.Brief) model.ScoredCandidate
}

var _ Scorer = (*Heuristics)(nil)

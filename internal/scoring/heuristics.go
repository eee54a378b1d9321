// Package scoring rates an enriched candidate against a brief.
package scoring

import (
	"fmt"
	"strings"

	"github.com/spiffcs/sonar/config"
	"github.com/spiffcs/sonar/internal/model"
)

// Score bounds
const (
	MinScore = 0
	MaxScore = 100
)

// Account maturity tiers
const (
	seniorYears, seniorRepos           = 5, 20
	establishedYears, establishedRepos = 3, 10
	emergingYears, emergingRepos       = 1, 5
)

// Star and follower tiers
const (
	starsHigh, starsMid, starsLow = 1000, 100, 10
	followersHigh, followersMid   = 1000, 100
)

// Heuristics implements additive rule-based candidate scoring. It holds no
// state besides its weights, so Score is safe for concurrent use.
type Heuristics struct {
	Weights config.ScoreWeights
}

// NewHeuristics creates a new heuristics scorer with the given weights
func NewHeuristics(weights config.ScoreWeights) *Heuristics {
	return &Heuristics{Weights: weights}
}

// card accumulates a score with its reasons and concerns in evaluation order.
type card struct {
	score    int
	reasons  []string
	concerns []string
}

func (c *card) reason(delta int, format string, args ...any) {
	c.score += delta
	c.reasons = append(c.reasons, fmt.Sprintf(format, args...))
}

func (c *card) concern(delta int, format string, args ...any) {
	c.score += delta
	c.concerns = append(c.concerns, fmt.Sprintf(format, args...))
}

// Score evaluates p against b. Rules run in a fixed order so reasons and
// concerns are deterministic; the result is clamped to [MinScore, MaxScore].
func (h *Heuristics) Score(p *model.CandidateProfile, b *model.Brief) model.ScoredCandidate {
	c := &card{score: h.Weights.Base, reasons: []string{}, concerns: []string{}}

	h.skills(c, p, b)
	h.location(c, p, b)
	h.maturity(c, p)
	h.activity(c, p)
	h.stars(c, p)
	h.followers(c, p)
	h.projectType(c, p, b)

	if p.Signals.IsHireable {
		c.reason(h.Weights.HireableBonus, "Open to new opportunities")
	}
	if !p.Signals.HasBio && !p.Signals.HasWebsite {
		c.concern(0, "Sparse profile: no bio or website")
	}

	return model.ScoredCandidate{
		CandidateProfile: *p,
		Score:            min(max(c.score, MinScore), MaxScore),
		MatchReasons:     c.reasons,
		Concerns:         c.concerns,
	}
}

func (h *Heuristics) skills(c *card, p *model.CandidateProfile, b *model.Brief) {
	required := nonEmpty(b.RequiredSkills)
	if len(required) == 0 {
		return
	}

	have := candidateSkills(p)
	var matched []string
	for _, skill := range required {
		if matchesAny(strings.ToLower(skill), have) {
			matched = append(matched, skill)
		}
	}

	if len(matched) == 0 {
		c.concern(h.Weights.NoSkillPenalty, "No match for required skills: %s", strings.Join(required, ", "))
		return
	}
	c.reason(min(len(matched)*h.Weights.SkillMatchBonus, h.Weights.SkillMatchMax),
		"Matches required skills: %s", strings.Join(matched, ", "))

	if primary := p.PrimaryLanguage(); primary != "" {
		lower := strings.ToLower(primary)
		for _, skill := range matched {
			if looseMatch(strings.ToLower(skill), lower) {
				c.reason(h.Weights.PrimaryLanguageBonus, "Primary language is %s", primary)
				break
			}
		}
	}
}

func (h *Heuristics) location(c *card, p *model.CandidateProfile, b *model.Brief) {
	want := strings.ToLower(strings.TrimSpace(b.PreferredLocation))
	have := strings.ToLower(strings.TrimSpace(p.Location))
	if want == "" || have == "" {
		return
	}
	if looseMatch(want, have) {
		c.reason(h.Weights.LocationBonus, "Located in %s", p.Location)
	}
}

func (h *Heuristics) maturity(c *card, p *model.CandidateProfile) {
	age, repos := p.AccountAgeYears, p.PublicRepos
	switch {
	case age >= seniorYears && repos >= seniorRepos:
		c.reason(h.Weights.SeniorAccountBonus, "Established developer: %.1f years, %d public repos", age, repos)
	case age >= establishedYears && repos >= establishedRepos:
		c.score += h.Weights.EstablishedBonus
	case age >= emergingYears && repos >= emergingRepos:
		c.score += h.Weights.EmergingBonus
	}
}

func (h *Heuristics) activity(c *card, p *model.CandidateProfile) {
	switch p.ActivityLevel {
	case model.ActivityVeryActive:
		c.reason(h.Weights.VeryActiveBonus, "Very active in the last 30 days")
	case model.ActivityActive:
		c.reason(h.Weights.ActiveBonus, "Active in the last 30 days")
	case model.ActivityModerate:
		c.score += h.Weights.ModerateBonus
	case model.ActivityLow:
		c.concern(0, "Low recent activity")
	case model.ActivityInactive:
		c.concern(h.Weights.InactivePenalty, "No public activity in the last 30 days")
	}
}

func (h *Heuristics) stars(c *card, p *model.CandidateProfile) {
	switch n := p.TotalStars; {
	case n >= starsHigh:
		c.reason(h.Weights.StarsHighBonus, "Popular open source work: %d stars", n)
	case n >= starsMid:
		c.reason(h.Weights.StarsMidBonus, "Recognized open source work: %d stars", n)
	case n >= starsLow:
		c.score += h.Weights.StarsLowBonus
	}
}

func (h *Heuristics) followers(c *card, p *model.CandidateProfile) {
	switch n := p.Followers; {
	case n >= followersHigh:
		c.reason(h.Weights.FollowersHighBonus, "Strong community presence: %d followers", n)
	case n >= followersMid:
		c.score += h.Weights.FollowersMidBonus
	}
}

func (h *Heuristics) projectType(c *card, p *model.CandidateProfile, b *model.Brief) {
	want := strings.ToLower(strings.TrimSpace(b.ProjectType))
	if want == "" {
		return
	}
	for _, topic := range p.Topics {
		if looseMatch(want, strings.ToLower(topic)) {
			c.reason(h.Weights.ProjectTypeBonus, "Works on %s projects", b.ProjectType)
			return
		}
	}
}

// candidateSkills is the lowercase union of language names and topics.
func candidateSkills(p *model.CandidateProfile) []string {
	seen := make(map[string]struct{}, len(p.Languages)+len(p.Topics))
	out := make([]string, 0, len(p.Languages)+len(p.Topics))
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, l := range p.Languages {
		add(l.Name)
	}
	for _, t := range p.Topics {
		add(t)
	}
	return out
}

func matchesAny(skill string, have []string) bool {
	for _, h := range have {
		if looseMatch(skill, h) {
			return true
		}
	}
	return false
}

// looseMatch reports whether either lowercase string contains the other.
// This accepts false positives such as "go" inside "mongo".
func looseMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func nonEmpty(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		if strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

package config

// ScoringOverrides allows customizing any candidate scoring weight.
type ScoringOverrides struct {
	Base                 *int `yaml:"base,omitempty"`
	SkillMatchBonus      *int `yaml:"skill_match_bonus,omitempty"`
	SkillMatchMax        *int `yaml:"skill_match_max,omitempty"`
	PrimaryLanguageBonus *int `yaml:"primary_language_bonus,omitempty"`
	NoSkillPenalty       *int `yaml:"no_skill_penalty,omitempty"`
	LocationBonus        *int `yaml:"location_bonus,omitempty"`
	SeniorAccountBonus   *int `yaml:"senior_account_bonus,omitempty"`
	EstablishedBonus     *int `yaml:"established_account_bonus,omitempty"`
	EmergingBonus        *int `yaml:"emerging_account_bonus,omitempty"`
	VeryActiveBonus      *int `yaml:"very_active_bonus,omitempty"`
	ActiveBonus          *int `yaml:"active_bonus,omitempty"`
	ModerateBonus        *int `yaml:"moderate_bonus,omitempty"`
	InactivePenalty      *int `yaml:"inactive_penalty,omitempty"`
	StarsHighBonus       *int `yaml:"stars_high_bonus,omitempty"`
	StarsMidBonus        *int `yaml:"stars_mid_bonus,omitempty"`
	StarsLowBonus        *int `yaml:"stars_low_bonus,omitempty"`
	FollowersHighBonus   *int `yaml:"followers_high_bonus,omitempty"`
	FollowersMidBonus    *int `yaml:"followers_mid_bonus,omitempty"`
	ProjectTypeBonus     *int `yaml:"project_type_bonus,omitempty"`
	HireableBonus        *int `yaml:"hireable_bonus,omitempty"`
}

// ScoreWeights defines the complete set of candidate scoring weights.
type ScoreWeights struct {
	Base int

	// Skills
	SkillMatchBonus      int // per matched required skill
	SkillMatchMax        int // cap on the summed per-skill bonus
	PrimaryLanguageBonus int
	NoSkillPenalty       int

	LocationBonus int

	// Account maturity tiers
	SeniorAccountBonus int // >= 5 years and >= 20 repos
	EstablishedBonus   int // >= 3 years and >= 10 repos
	EmergingBonus      int // >= 1 year and >= 5 repos

	// Activity
	VeryActiveBonus int
	ActiveBonus     int
	ModerateBonus   int
	InactivePenalty int

	// Stars tiers
	StarsHighBonus int // >= 1000
	StarsMidBonus  int // >= 100
	StarsLowBonus  int // >= 10

	// Follower tiers
	FollowersHighBonus int // >= 1000
	FollowersMidBonus  int // >= 100

	ProjectTypeBonus int
	HireableBonus    int
}

// DefaultScoreWeights returns the default scoring weights
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Base: 50,

		SkillMatchBonus:      8,
		SkillMatchMax:        25,
		PrimaryLanguageBonus: 5,
		NoSkillPenalty:       -15,

		LocationBonus: 12,

		SeniorAccountBonus: 12,
		EstablishedBonus:   8,
		EmergingBonus:      4,

		VeryActiveBonus: 15,
		ActiveBonus:     10,
		ModerateBonus:   5,
		InactivePenalty: -8,

		StarsHighBonus: 18,
		StarsMidBonus:  10,
		StarsLowBonus:  4,

		FollowersHighBonus: 8,
		FollowersMidBonus:  4,

		ProjectTypeBonus: 10,
		HireableBonus:    5,
	}
}

// GetScoreWeights returns score weights with user overrides merged with defaults
func (c *Config) GetScoreWeights() ScoreWeights {
	weights := DefaultScoreWeights()
	s := c.Scoring
	if s == nil {
		return weights
	}

	apply := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&weights.Base, s.Base)
	apply(&weights.SkillMatchBonus, s.SkillMatchBonus)
	apply(&weights.SkillMatchMax, s.SkillMatchMax)
	apply(&weights.PrimaryLanguageBonus, s.PrimaryLanguageBonus)
	apply(&weights.NoSkillPenalty, s.NoSkillPenalty)
	apply(&weights.LocationBonus, s.LocationBonus)
	apply(&weights.SeniorAccountBonus, s.SeniorAccountBonus)
	apply(&weights.EstablishedBonus, s.EstablishedBonus)
	apply(&weights.EmergingBonus, s.EmergingBonus)
	apply(&weights.VeryActiveBonus, s.VeryActiveBonus)
	apply(&weights.ActiveBonus, s.ActiveBonus)
	apply(&weights.ModerateBonus, s.ModerateBonus)
	apply(&weights.InactivePenalty, s.InactivePenalty)
	apply(&weights.StarsHighBonus, s.StarsHighBonus)
	apply(&weights.StarsMidBonus, s.StarsMidBonus)
	apply(&weights.StarsLowBonus, s.StarsLowBonus)
	apply(&weights.FollowersHighBonus, s.FollowersHighBonus)
	apply(&weights.FollowersMidBonus, s.FollowersMidBonus)
	apply(&weights.ProjectTypeBonus, s.ProjectTypeBonus)
	apply(&weights.HireableBonus, s.HireableBonus)

	return weights
}

// Overrides returns w as a fully populated override set, used to render
// a complete config template.
func (w ScoreWeights) Overrides() *ScoringOverrides {
	return &ScoringOverrides{
		Base:                 &w.Base,
		SkillMatchBonus:      &w.SkillMatchBonus,
		SkillMatchMax:        &w.SkillMatchMax,
		PrimaryLanguageBonus: &w.PrimaryLanguageBonus,
		NoSkillPenalty:       &w.NoSkillPenalty,
		LocationBonus:        &w.LocationBonus,
		SeniorAccountBonus:   &w.SeniorAccountBonus,
		EstablishedBonus:     &w.EstablishedBonus,
		EmergingBonus:        &w.EmergingBonus,
		VeryActiveBonus:      &w.VeryActiveBonus,
		ActiveBonus:          &w.ActiveBonus,
		ModerateBonus:        &w.ModerateBonus,
		InactivePenalty:      &w.InactivePenalty,
		StarsHighBonus:       &w.StarsHighBonus,
		StarsMidBonus:        &w.StarsMidBonus,
		StarsLowBonus:        &w.StarsLowBonus,
		FollowersHighBonus:   &w.FollowersHighBonus,
		FollowersMidBonus:    &w.FollowersMidBonus,
		ProjectTypeBonus:     &w.ProjectTypeBonus,
		HireableBonus:        &w.HireableBonus,
	}
}

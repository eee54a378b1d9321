package model

// ActivityLevel buckets a candidate's public event volume over the last 30 days.
type ActivityLevel string

const (
	ActivityVeryActive ActivityLevel = "very_active"
	ActivityActive     ActivityLevel = "active"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityLow        ActivityLevel = "low"
	ActivityInactive   ActivityLevel = "inactive"
)

// LanguageShare is one entry of a language breakdown.
type LanguageShare struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

// Signals are boolean profile hints used for scoring and display.
type Signals struct {
	IsHireable bool `json:"isHireable"`
	HasEmail   bool `json:"hasEmail"`
	HasBio     bool `json:"hasBio"`
	HasWebsite bool `json:"hasWebsite"`
}

// CandidateProfile is the enriched, transient view of one developer.
// It is recomputed on every run and never persisted as-is.
type CandidateProfile struct {
	Username            string          `json:"username"`
	DisplayName         string          `json:"displayName,omitempty"`
	Bio                 string          `json:"bio,omitempty"`
	Location            string          `json:"location,omitempty"`
	Followers           int             `json:"followers"`
	PublicRepos         int             `json:"publicRepos"`
	AccountAgeYears     float64         `json:"accountAgeYears"`
	TotalStars          int             `json:"totalStars"`
	Languages           []LanguageShare `json:"languages"`
	Topics              []string        `json:"topics"`
	ActivityLevel       ActivityLevel   `json:"activityLevel"`
	RecentlyActiveRepos int             `json:"recentlyActiveRepos"`
	Signals             Signals         `json:"signals"`
}

// PrimaryLanguage returns the highest-percentage language, or "" if none.
func (p *CandidateProfile) PrimaryLanguage() string {
	if len(p.Languages) == 0 {
		return ""
	}
	return p.Languages[0].Name
}

// ScoredCandidate is a profile together with its heuristic evaluation.
type ScoredCandidate struct {
	CandidateProfile
	Score        int      `json:"score"`
	MatchReasons []string `json:"matchReasons"`
	Concerns     []string `json:"concerns"`

	// SearchDescription is the query that first surfaced the candidate.
	SearchDescription string `json:"searchDescription,omitempty"`
}

package model

import "time"

// ResultStatus tracks what a recruiter has done with a persisted result.
type ResultStatus string

const (
	StatusNew       ResultStatus = "new"
	StatusViewed    ResultStatus = "viewed"
	StatusSaved     ResultStatus = "saved"
	StatusContacted ResultStatus = "contacted"
	StatusDismissed ResultStatus = "dismissed"
)

// Valid reports whether s is one of the known statuses.
func (s ResultStatus) Valid() bool {
	switch s {
	case StatusNew, StatusViewed, StatusSaved, StatusContacted, StatusDismissed:
		return true
	}
	return false
}

// SonarResult is a scored candidate persisted against a brief.
// At most one exists per (BriefID, lowercase Username).
type SonarResult struct {
	ID                string          `json:"id"`
	BriefID           string          `json:"briefId"`
	Username          string          `json:"username"`
	DisplayName       string          `json:"displayName,omitempty"`
	Bio               string          `json:"bio,omitempty"`
	Location          string          `json:"location,omitempty"`
	Score             int             `json:"score"`
	MatchReasons      []string        `json:"matchReasons"`
	Concerns          []string        `json:"concerns"`
	Languages         []LanguageShare `json:"languages"`
	Topics            []string        `json:"topics"`
	ActivityLevel     ActivityLevel   `json:"activityLevel"`
	Followers         int             `json:"followers"`
	PublicRepos       int             `json:"publicRepos"`
	TotalStars        int             `json:"totalStars"`
	AccountAgeYears   float64         `json:"accountAgeYears"`
	Signals           Signals         `json:"signals"`
	SearchDescription string          `json:"searchDescription,omitempty"`
	Status            ResultStatus    `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// NewSonarResult snapshots the scoring fields of c for brief briefID.
func NewSonarResult(briefID string, c ScoredCandidate) SonarResult {
	return SonarResult{
		BriefID:           briefID,
		Username:          c.Username,
		DisplayName:       c.DisplayName,
		Bio:               c.Bio,
		Location:          c.Location,
		Score:             c.Score,
		MatchReasons:      c.MatchReasons,
		Concerns:          c.Concerns,
		Languages:         c.Languages,
		Topics:            c.Topics,
		ActivityLevel:     c.ActivityLevel,
		Followers:         c.Followers,
		PublicRepos:       c.PublicRepos,
		TotalStars:        c.TotalStars,
		AccountAgeYears:   c.AccountAgeYears,
		Signals:           c.Signals,
		SearchDescription: c.SearchDescription,
		Status:            StatusNew,
	}
}

// Package output renders scored candidates and persisted results for the CLI.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/spiffcs/sonar/internal/model"
)

// Format represents the output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table or json)", s)
	}
}

// RunSummary describes one pipeline run for display.
type RunSummary struct {
	BriefID          string        `json:"briefId"`
	Queries          []string      `json:"queries"`
	SearchedProfiles int           `json:"searchedProfiles"`
	Qualified        int           `json:"qualified"`
	NewCandidates    int           `json:"newCandidates"`
	Duration         time.Duration `json:"durationNs"`
}

// Formatter defines the interface for output formatters
type Formatter interface {
	FormatCandidates(candidates []model.ScoredCandidate, summary RunSummary, w io.Writer) error
	FormatResults(results []model.SonarResult, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	default:
		return &TableFormatter{Now: time.Now}
	}
}

// row is the display form shared by candidates and persisted results.
type row struct {
	Username  string
	Score     int
	Location  string
	Language  string
	Activity  model.ActivityLevel
	Stars     int
	Followers int
	Reason    string
	Concern   string
	Status    model.ResultStatus
	CreatedAt time.Time
}

func candidateRow(c model.ScoredCandidate) row {
	return row{
		Username:  c.Username,
		Score:     c.Score,
		Location:  c.Location,
		Language:  c.PrimaryLanguage(),
		Activity:  c.ActivityLevel,
		Stars:     c.TotalStars,
		Followers: c.Followers,
		Reason:    first(c.MatchReasons),
		Concern:   first(c.Concerns),
	}
}

func resultRow(r model.SonarResult) row {
	lang := ""
	if len(r.Languages) > 0 {
		lang = r.Languages[0].Name
	}
	return row{
		Username:  r.Username,
		Score:     r.Score,
		Location:  r.Location,
		Language:  lang,
		Activity:  r.ActivityLevel,
		Stars:     r.TotalStars,
		Followers: r.Followers,
		Reason:    first(r.MatchReasons),
		Concern:   first(r.Concerns),
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// ProfileURL returns the public profile link for username.
func ProfileURL(username string) string {
	return "https://github.com/" + username
}

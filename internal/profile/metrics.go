package profile

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spiffcs/sonar/internal/constants"
	"github.com/spiffcs/sonar/internal/model"
)

// Activity level thresholds, in events within the activity window.
const (
	veryActiveEvents = 50
	activeEvents     = 20
	moderateEvents   = 5
	lowEvents        = 1
)

const daysPerYear = 365.25

// Derive computes a CandidateProfile from raw records as of now.
func Derive(snap *model.ProfileSnapshot, now time.Time) model.CandidateProfile {
	u := snap.User
	own := ownRepos(snap.Repos)
	since := now.Add(-constants.ActivityWindow)

	username := u.Login
	return model.CandidateProfile{
		Username:            username,
		DisplayName:         u.Name,
		Bio:                 u.Bio,
		Location:            u.Location,
		Followers:           u.Followers,
		PublicRepos:         u.PublicRepos,
		AccountAgeYears:     AccountAgeYears(u.CreatedAt, now),
		TotalStars:          totalStars(own),
		Languages:           LanguageBreakdown(own),
		Topics:              topics(own),
		ActivityLevel:       ClassifyActivity(countSince(snap.Events, since)),
		RecentlyActiveRepos: recentlyActive(own, since),
		Signals: model.Signals{
			IsHireable: u.Hireable,
			HasEmail:   strings.TrimSpace(u.Email) != "",
			HasBio:     strings.TrimSpace(u.Bio) != "",
			HasWebsite: strings.TrimSpace(u.Blog) != "",
		},
	}
}

// AccountAgeYears returns the age of an account in years, one decimal.
func AccountAgeYears(created, now time.Time) float64 {
	if created.IsZero() || now.Before(created) {
		return 0
	}
	years := now.Sub(created).Hours() / 24 / daysPerYear
	return math.Round(years*10) / 10
}

// ClassifyActivity maps a recent event count to an activity level.
func ClassifyActivity(events int) model.ActivityLevel {
	switch {
	case events >= veryActiveEvents:
		return model.ActivityVeryActive
	case events >= activeEvents:
		return model.ActivityActive
	case events >= moderateEvents:
		return model.ActivityModerate
	case events >= lowEvents:
		return model.ActivityLow
	default:
		return model.ActivityInactive
	}
}

// LanguageBreakdown buckets repo sizes by primary language. Each share is
// round(bytes/total*100); the top MaxLanguages are returned, highest first,
// ties keeping first-seen order.
func LanguageBreakdown(repos []model.RepoRecord) []model.LanguageShare {
	var (
		order []string
		bytes = map[string]int{}
		total int
	)
	for _, r := range repos {
		if r.Size <= 0 || r.Language == "" {
			continue
		}
		if _, seen := bytes[r.Language]; !seen {
			order = append(order, r.Language)
		}
		bytes[r.Language] += r.Size
		total += r.Size
	}
	if total == 0 {
		return []model.LanguageShare{}
	}

	shares := make([]model.LanguageShare, 0, len(order))
	for _, lang := range order {
		pct := int(math.Round(float64(bytes[lang]) / float64(total) * 100))
		shares = append(shares, model.LanguageShare{Name: lang, Percentage: pct})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Percentage > shares[j].Percentage
	})
	if len(shares) > constants.MaxLanguages {
		shares = shares[:constants.MaxLanguages]
	}
	return shares
}

func ownRepos(repos []model.RepoRecord) []model.RepoRecord {
	own := make([]model.RepoRecord, 0, len(repos))
	for _, r := range repos {
		if !r.Fork {
			own = append(own, r)
		}
	}
	return own
}

func totalStars(repos []model.RepoRecord) int {
	n := 0
	for _, r := range repos {
		n += r.Stars
	}
	return n
}

func topics(repos []model.RepoRecord) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range repos {
		for _, t := range r.Topics {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

func countSince(events []model.EventRecord, since time.Time) int {
	n := 0
	for _, e := range events {
		if !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n
}

func recentlyActive(repos []model.RepoRecord, since time.Time) int {
	n := 0
	for _, r := range repos {
		if !r.UpdatedAt.Before(since) {
			n++
		}
	}
	return n
}

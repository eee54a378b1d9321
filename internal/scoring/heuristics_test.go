package scoring

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spiffcs/sonar/config"
	"github.com/spiffcs/sonar/internal/model"
)

// baseline has no factor that moves the score besides the ones under test:
// low activity is a concern only and a bio suppresses the completeness concern.
func baseline() *model.CandidateProfile {
	return &model.CandidateProfile{
		Username:      "ferris",
		ActivityLevel: model.ActivityLow,
		Languages:     []model.LanguageShare{},
		Topics:        []string{},
		Signals:       model.Signals{HasBio: true},
	}
}

func newScorer() *Heuristics {
	return NewHeuristics(config.DefaultScoreWeights())
}

func TestScoreSkillAndPrimaryLanguage(t *testing.T) {
	p := baseline()
	p.Languages = []model.LanguageShare{{Name: "Rust", Percentage: 70}, {Name: "Python", Percentage: 30}}

	got := newScorer().Score(p, &model.Brief{RequiredSkills: []string{"Rust"}})

	if got.Score != 63 {
		t.Errorf("Score() = %d, want 63", got.Score)
	}
	wantReasons := []string{"Matches required skills: Rust", "Primary language is Rust"}
	if !reflect.DeepEqual(got.MatchReasons, wantReasons) {
		t.Errorf("MatchReasons = %q, want %q", got.MatchReasons, wantReasons)
	}
}

func TestScoreNoSkillMatchFallsBelowThreshold(t *testing.T) {
	p := baseline()
	p.ActivityLevel = model.ActivityInactive
	p.Languages = []model.LanguageShare{{Name: "Python", Percentage: 100}}
	p.Topics = []string{"django"}

	got := newScorer().Score(p, &model.Brief{RequiredSkills: []string{"Go"}})

	if got.Score != 27 {
		t.Errorf("Score() = %d, want 27", got.Score)
	}
	if got.Score >= 35 {
		t.Errorf("Score() = %d, want below the persistence threshold", got.Score)
	}
	if len(got.Concerns) != 2 {
		t.Errorf("Concerns = %q, want skill and inactivity concerns", got.Concerns)
	}
}

// A "Go" requirement matches "mongodb" because matching is a loose
// bidirectional substring test. Kept for parity with existing results.
func TestScoreLooseSkillMatchKnownLimitation(t *testing.T) {
	p := baseline()
	p.Languages = []model.LanguageShare{{Name: "JavaScript", Percentage: 100}}
	p.Topics = []string{"mongodb"}

	got := newScorer().Score(p, &model.Brief{RequiredSkills: []string{"Go"}})

	if got.Score != 58 {
		t.Errorf("Score() = %d, want 58 (false-positive skill match)", got.Score)
	}
}

func TestScoreSkillBonusIsCapped(t *testing.T) {
	p := baseline()
	p.Languages = []model.LanguageShare{{Name: "Go", Percentage: 50}, {Name: "Rust", Percentage: 50}}
	p.Topics = []string{"kubernetes", "docker"}

	brief := &model.Brief{RequiredSkills: []string{"go", "rust", "kubernetes", "docker", ""}}
	got := newScorer().Score(p, brief)

	// 4 matches * 8 = 32, capped at 25, plus primary language 5
	if got.Score != 80 {
		t.Errorf("Score() = %d, want 80", got.Score)
	}
	if !strings.HasSuffix(got.MatchReasons[0], "go, rust, kubernetes, docker") {
		t.Errorf("MatchReasons[0] = %q, want matched skills in brief order", got.MatchReasons[0])
	}
}

func TestScoreLocation(t *testing.T) {
	tests := []struct {
		name     string
		want     string
		have     string
		wantDiff int
	}{
		{"candidate location contains brief location", "Berlin", "Berlin, Germany", 12},
		{"brief location contains candidate location", "Berlin, Germany", "berlin", 12},
		{"no overlap", "Berlin", "Lisbon", 0},
		{"brief has no location", "", "Berlin", 0},
		{"candidate has no location", "Berlin", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseline()
			p.Location = tt.have
			got := newScorer().Score(p, &model.Brief{PreferredLocation: tt.want})
			if diff := got.Score - 50; diff != tt.wantDiff {
				t.Errorf("location bonus = %d, want %d", diff, tt.wantDiff)
			}
		})
	}
}

func TestScoreTiers(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *model.CandidateProfile)
		want   int
	}{
		{"senior account", func(p *model.CandidateProfile) { p.AccountAgeYears, p.PublicRepos = 6, 25 }, 62},
		{"established account", func(p *model.CandidateProfile) { p.AccountAgeYears, p.PublicRepos = 6, 12 }, 58},
		{"emerging account", func(p *model.CandidateProfile) { p.AccountAgeYears, p.PublicRepos = 1.5, 5 }, 54},
		{"new account", func(p *model.CandidateProfile) { p.AccountAgeYears, p.PublicRepos = 0.5, 40 }, 50},
		{"very active", func(p *model.CandidateProfile) { p.ActivityLevel = model.ActivityVeryActive }, 65},
		{"active", func(p *model.CandidateProfile) { p.ActivityLevel = model.ActivityActive }, 60},
		{"moderate", func(p *model.CandidateProfile) { p.ActivityLevel = model.ActivityModerate }, 55},
		{"inactive", func(p *model.CandidateProfile) { p.ActivityLevel = model.ActivityInactive }, 42},
		{"1000 stars", func(p *model.CandidateProfile) { p.TotalStars = 1000 }, 68},
		{"100 stars", func(p *model.CandidateProfile) { p.TotalStars = 999 }, 60},
		{"10 stars", func(p *model.CandidateProfile) { p.TotalStars = 10 }, 54},
		{"9 stars", func(p *model.CandidateProfile) { p.TotalStars = 9 }, 50},
		{"1000 followers", func(p *model.CandidateProfile) { p.Followers = 5000 }, 58},
		{"100 followers", func(p *model.CandidateProfile) { p.Followers = 100 }, 54},
		{"hireable", func(p *model.CandidateProfile) { p.Signals.IsHireable = true }, 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseline()
			tt.modify(p)
			if got := newScorer().Score(p, &model.Brief{}); got.Score != tt.want {
				t.Errorf("Score() = %d, want %d", got.Score, tt.want)
			}
		})
	}
}

func TestScoreProjectType(t *testing.T) {
	p := baseline()
	p.Topics = []string{"machine-learning", "pytorch"}

	got := newScorer().Score(p, &model.Brief{ProjectType: "Machine-Learning"})
	if got.Score != 60 {
		t.Errorf("Score() = %d, want 60", got.Score)
	}

	got = newScorer().Score(p, &model.Brief{ProjectType: "blockchain"})
	if got.Score != 50 {
		t.Errorf("Score() = %d, want 50 without topic match", got.Score)
	}
}

func TestScoreCompletenessConcern(t *testing.T) {
	p := baseline()
	p.ActivityLevel = model.ActivityModerate
	p.Signals = model.Signals{}

	got := newScorer().Score(p, &model.Brief{})
	if got.Score != 55 {
		t.Errorf("Score() = %d, want 55 (completeness concern has no weight)", got.Score)
	}
	if len(got.Concerns) != 1 || !strings.Contains(got.Concerns[0], "no bio or website") {
		t.Errorf("Concerns = %q, want completeness concern", got.Concerns)
	}
}

func TestScoreClamped(t *testing.T) {
	high := baseline()
	high.Languages = []model.LanguageShare{{Name: "Go", Percentage: 100}}
	high.Topics = []string{"kubernetes", "docker", "grpc", "web"}
	high.Location = "Berlin"
	high.AccountAgeYears, high.PublicRepos = 10, 100
	high.ActivityLevel = model.ActivityVeryActive
	high.TotalStars, high.Followers = 50000, 9000
	high.Signals.IsHireable = true

	brief := &model.Brief{
		RequiredSkills:    []string{"go", "kubernetes", "docker", "grpc"},
		PreferredLocation: "Berlin",
		ProjectType:       "web",
	}
	if got := newScorer().Score(high, brief); got.Score != MaxScore {
		t.Errorf("Score() = %d, want %d", got.Score, MaxScore)
	}

	low := baseline()
	low.ActivityLevel = model.ActivityInactive
	w := config.DefaultScoreWeights()
	w.Base = 10
	if got := NewHeuristics(w).Score(low, &model.Brief{RequiredSkills: []string{"cobol"}}); got.Score != MinScore {
		t.Errorf("Score() = %d, want %d", got.Score, MinScore)
	}
}

func TestScoreDeterministic(t *testing.T) {
	p := baseline()
	p.Languages = []model.LanguageShare{{Name: "Go", Percentage: 60}, {Name: "Rust", Percentage: 40}}
	p.Topics = []string{"cli", "web"}
	p.Location = "Berlin"
	p.ActivityLevel = model.ActivityInactive
	brief := &model.Brief{RequiredSkills: []string{"rust", "go"}, PreferredLocation: "berlin", ProjectType: "cli"}

	h := newScorer()
	first := h.Score(p, brief)
	for i := 0; i < 10; i++ {
		if got := h.Score(p, brief); !reflect.DeepEqual(got, first) {
			t.Fatalf("Score() = %+v, want %+v", got, first)
		}
	}
}

func TestScoreCarriesProfile(t *testing.T) {
	p := baseline()
	p.DisplayName = "Ferris"
	got := newScorer().Score(p, &model.Brief{})
	if got.Username != "ferris" || got.DisplayName != "Ferris" {
		t.Errorf("Score() lost profile fields: %+v", got.CandidateProfile)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultScoreWeights(t *testing.T) {
	weights := DefaultScoreWeights()

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"Base", weights.Base, 50},
		{"SkillMatchBonus", weights.SkillMatchBonus, 8},
		{"SkillMatchMax", weights.SkillMatchMax, 25},
		{"PrimaryLanguageBonus", weights.PrimaryLanguageBonus, 5},
		{"NoSkillPenalty", weights.NoSkillPenalty, -15},
		{"LocationBonus", weights.LocationBonus, 12},
		{"SeniorAccountBonus", weights.SeniorAccountBonus, 12},
		{"EstablishedBonus", weights.EstablishedBonus, 8},
		{"EmergingBonus", weights.EmergingBonus, 4},
		{"VeryActiveBonus", weights.VeryActiveBonus, 15},
		{"ActiveBonus", weights.ActiveBonus, 10},
		{"ModerateBonus", weights.ModerateBonus, 5},
		{"InactivePenalty", weights.InactivePenalty, -8},
		{"StarsHighBonus", weights.StarsHighBonus, 18},
		{"StarsMidBonus", weights.StarsMidBonus, 10},
		{"StarsLowBonus", weights.StarsLowBonus, 4},
		{"FollowersHighBonus", weights.FollowersHighBonus, 8},
		{"FollowersMidBonus", weights.FollowersMidBonus, 4},
		{"ProjectTypeBonus", weights.ProjectTypeBonus, 10},
		{"HireableBonus", weights.HireableBonus, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("DefaultScoreWeights().%s = %d, want %d", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestGetScoreWeights(t *testing.T) {
	t.Run("returns defaults when no overrides", func(t *testing.T) {
		cfg := &Config{}
		weights := cfg.GetScoreWeights()

		if weights != DefaultScoreWeights() {
			t.Errorf("GetScoreWeights() = %+v, want defaults", weights)
		}
	})

	t.Run("merges partial overrides", func(t *testing.T) {
		location := 20
		cfg := &Config{Scoring: &ScoringOverrides{LocationBonus: &location}}
		weights := cfg.GetScoreWeights()

		if weights.LocationBonus != 20 {
			t.Errorf("GetScoreWeights().LocationBonus = %d, want 20", weights.LocationBonus)
		}
		if weights.HireableBonus != 5 {
			t.Errorf("GetScoreWeights().HireableBonus = %d, want 5", weights.HireableBonus)
		}
	})
}

func TestSettingsDefaults(t *testing.T) {
	cfg := &Config{}

	if got := cfg.GetPipeline(); got.MaxCandidates != 20 || got.MaxResults != 10 || got.ScoreThreshold != 35 || got.EnrichWorkers != 1 {
		t.Errorf("GetPipeline() = %+v, want 20/10/35/1", got)
	}
	if got := cfg.GetSearch(); got.Domain != "github.com" || got.NumResults != 20 || got.MaxQueries != 3 {
		t.Errorf("GetSearch() = %+v", got)
	}
	if got := cfg.GetRateLimit(); got.Limit != 5 || got.Window != time.Minute {
		t.Errorf("GetRateLimit() = %+v, want 5 per 1m", got)
	}
	if got := cfg.GetCache(); got.Enabled {
		t.Errorf("GetCache().Enabled = true, want false")
	}
	if got := cfg.GetLogFormat(); got != "text" {
		t.Errorf("GetLogFormat() = %q, want text", got)
	}
}

func TestValidate(t *testing.T) {
	workers := func(n int) *Config {
		return &Config{Pipeline: &PipelineConfig{EnrichWorkers: &n}}
	}
	search := func(queries, results int) *Config {
		return &Config{Search: &SearchConfig{MaxQueries: &queries, NumResults: &results}}
	}
	pipeline := func(candidates, results int) *Config {
		return &Config{Pipeline: &PipelineConfig{MaxCandidates: &candidates, MaxResults: &results}}
	}
	badWindow := "soon"
	dayTTL := "1d"
	jsonFormat := "json"
	xmlFormat := "xml"

	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{name: "empty config is valid", cfg: &Config{}},
		{name: "five workers allowed", cfg: workers(5)},
		{name: "six workers rejected", cfg: workers(6), wantErr: "enrich_workers"},
		{name: "zero workers rejected", cfg: workers(0), wantErr: "enrich_workers"},
		{name: "negative max queries", cfg: search(-1, 20), wantErr: "search.max_queries"},
		{name: "zero max queries", cfg: search(0, 20), wantErr: "search.max_queries"},
		{name: "four max queries", cfg: search(4, 20), wantErr: "search.max_queries"},
		{name: "fewer queries and results allowed", cfg: search(1, 5)},
		{name: "zero num results", cfg: search(3, 0), wantErr: "search.num_results"},
		{name: "num results above cap", cfg: search(3, 21), wantErr: "search.num_results"},
		{name: "candidates above cap", cfg: pipeline(25, 10), wantErr: "pipeline.max_candidates"},
		{name: "zero candidates", cfg: pipeline(0, 10), wantErr: "pipeline.max_candidates"},
		{name: "results above cap", cfg: pipeline(20, 11), wantErr: "pipeline.max_results"},
		{name: "zero results", cfg: pipeline(20, 0), wantErr: "pipeline.max_results"},
		{name: "bad window", cfg: &Config{RateLimit: &RateLimitConfig{Window: &badWindow}}, wantErr: "rate_limit.window"},
		{name: "human ttl", cfg: &Config{Cache: &CacheConfig{TTL: &dayTTL}}},
		{name: "json log format", cfg: &Config{Log: &LogConfig{Format: &jsonFormat}}},
		{name: "unknown log format", cfg: &Config{Log: &LogConfig{Format: &xmlFormat}}, wantErr: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromMergesLocalOverGlobal(t *testing.T) {
	dir := t.TempDir()
	globalPath := filepath.Join(dir, "config.yaml")
	localPath := filepath.Join(dir, ".sonar.yaml")

	global := `default_format: json
pipeline:
  enrich_workers: 3
  score_threshold: 40
scoring:
  hireable_bonus: 7
`
	local := `pipeline:
  score_threshold: 45
scoring:
  location_bonus: 15
`
	if err := os.WriteFile(globalPath, []byte(global), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(localPath, []byte(local), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(globalPath, localPath)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.DefaultFormat != "json" {
		t.Errorf("DefaultFormat = %q, want json", cfg.DefaultFormat)
	}
	p := cfg.GetPipeline()
	if p.EnrichWorkers != 3 {
		t.Errorf("EnrichWorkers = %d, want 3 (from global)", p.EnrichWorkers)
	}
	if p.ScoreThreshold != 45 {
		t.Errorf("ScoreThreshold = %d, want 45 (local wins)", p.ScoreThreshold)
	}
	w := cfg.GetScoreWeights()
	if w.HireableBonus != 7 || w.LocationBonus != 15 {
		t.Errorf("weights = hireable %d, location %d, want 7 and 15", w.HireableBonus, w.LocationBonus)
	}
}

func TestLoadFromMissingFiles(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "also-nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.DefaultFormat != "table" {
		t.Errorf("DefaultFormat = %q, want table", cfg.DefaultFormat)
	}
}

func TestDefaultConfigRoundTrips(t *testing.T) {
	cfg := DefaultConfig()
	out, err := cfg.ToYAML()
	if err != nil {
		t.Fatalf("ToYAML() error = %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := SaveTo(path, out); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFrom(path, filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.GetScoreWeights() != DefaultScoreWeights() {
		t.Errorf("reloaded weights differ from defaults")
	}
	if loaded.GetRateLimit() != cfg.GetRateLimit() {
		t.Errorf("reloaded rate limit = %+v, want %+v", loaded.GetRateLimit(), cfg.GetRateLimit())
	}
}

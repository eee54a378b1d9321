package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spiffcs/sonar/internal/constants"
	"github.com/spiffcs/sonar/internal/duration"
)

// Config represents the application configuration.
// Every field is optional; unset values fall back to defaults.
type Config struct {
	DefaultFormat string `yaml:"default_format,omitempty"`

	Server    *ServerConfig     `yaml:"server,omitempty"`
	Search    *SearchConfig     `yaml:"search,omitempty"`
	GitHub    *GitHubConfig     `yaml:"github,omitempty"`
	Pipeline  *PipelineConfig   `yaml:"pipeline,omitempty"`
	RateLimit *RateLimitConfig  `yaml:"rate_limit,omitempty"`
	Cache     *CacheConfig      `yaml:"cache,omitempty"`
	Log       *LogConfig        `yaml:"log,omitempty"`
	Scoring   *ScoringOverrides `yaml:"scoring,omitempty"`
}

// ServerConfig configures the HTTP trigger.
type ServerConfig struct {
	ListenAddr      *string `yaml:"listen_addr,omitempty"`
	ShutdownTimeout *string `yaml:"shutdown_timeout,omitempty"`
}

// SearchConfig configures the web search collaborator.
type SearchConfig struct {
	Endpoint      *string `yaml:"endpoint,omitempty"`
	Domain        *string `yaml:"domain,omitempty"`
	NumResults    *int    `yaml:"num_results,omitempty"`
	MaxQueries    *int    `yaml:"max_queries,omitempty"`
	RetryAttempts *int    `yaml:"retry_attempts,omitempty"`
}

// GitHubConfig configures the profile-data collaborator.
type GitHubConfig struct {
	BaseURL *string `yaml:"base_url,omitempty"`
}

// PipelineConfig bounds the discovery and aggregation stages.
type PipelineConfig struct {
	MaxCandidates  *int `yaml:"max_candidates,omitempty"`
	EnrichWorkers  *int `yaml:"enrich_workers,omitempty"`
	ScoreThreshold *int `yaml:"score_threshold,omitempty"`
	MaxResults     *int `yaml:"max_results,omitempty"`
}

// RateLimitConfig configures the caller-scoped trigger limiter.
type RateLimitConfig struct {
	Limit  *int    `yaml:"limit,omitempty"`
	Window *string `yaml:"window,omitempty"`
}

// CacheConfig configures the profile snapshot cache.
type CacheConfig struct {
	Enabled *bool   `yaml:"enabled,omitempty"`
	TTL     *string `yaml:"ttl,omitempty"`
}

// LogConfig configures log output.
type LogConfig struct {
	Format *string `yaml:"format,omitempty"`
}

// ServerSettings is the resolved server configuration.
type ServerSettings struct {
	ListenAddr      string
	ShutdownTimeout time.Duration
}

// SearchSettings is the resolved search configuration.
type SearchSettings struct {
	Endpoint      string
	Domain        string
	NumResults    int
	MaxQueries    int
	RetryAttempts int
}

// PipelineSettings is the resolved pipeline configuration.
type PipelineSettings struct {
	MaxCandidates  int
	EnrichWorkers  int
	ScoreThreshold int
	MaxResults     int
}

// RateLimitSettings is the resolved limiter configuration.
type RateLimitSettings struct {
	Limit  int
	Window time.Duration
}

// CacheSettings is the resolved cache configuration.
type CacheSettings struct {
	Enabled bool
	TTL     time.Duration
}

// DefaultSearchEndpoint is the search API used when none is configured.
const DefaultSearchEndpoint = "https://api.exa.ai/search"

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func durationOr(p *string, def time.Duration) time.Duration {
	if p == nil {
		return def
	}
	d, err := duration.ParseSpan(*p)
	if err != nil {
		return def
	}
	return d
}

// GetServer returns server settings with defaults applied.
func (c *Config) GetServer() ServerSettings {
	s := c.Server
	if s == nil {
		s = &ServerConfig{}
	}
	return ServerSettings{
		ListenAddr:      valueOr(s.ListenAddr, constants.DefaultListenAddr),
		ShutdownTimeout: durationOr(s.ShutdownTimeout, constants.ShutdownTimeout),
	}
}

// GetSearch returns search settings with defaults applied.
func (c *Config) GetSearch() SearchSettings {
	s := c.Search
	if s == nil {
		s = &SearchConfig{}
	}
	return SearchSettings{
		Endpoint:      valueOr(s.Endpoint, DefaultSearchEndpoint),
		Domain:        valueOr(s.Domain, constants.SearchDomain),
		NumResults:    valueOr(s.NumResults, constants.SearchNumResults),
		MaxQueries:    valueOr(s.MaxQueries, constants.MaxQueries),
		RetryAttempts: valueOr(s.RetryAttempts, constants.SearchRetryAttempts),
	}
}

// GetGitHubBaseURL returns the configured GitHub API base URL, or "" for github.com.
func (c *Config) GetGitHubBaseURL() string {
	if c.GitHub == nil {
		return ""
	}
	return valueOr(c.GitHub.BaseURL, "")
}

// GetPipeline returns pipeline settings with defaults applied.
func (c *Config) GetPipeline() PipelineSettings {
	p := c.Pipeline
	if p == nil {
		p = &PipelineConfig{}
	}
	return PipelineSettings{
		MaxCandidates:  valueOr(p.MaxCandidates, constants.MaxCandidates),
		EnrichWorkers:  valueOr(p.EnrichWorkers, 1),
		ScoreThreshold: valueOr(p.ScoreThreshold, constants.ScoreThreshold),
		MaxResults:     valueOr(p.MaxResults, constants.MaxResults),
	}
}

// GetRateLimit returns limiter settings with defaults applied.
func (c *Config) GetRateLimit() RateLimitSettings {
	r := c.RateLimit
	if r == nil {
		r = &RateLimitConfig{}
	}
	return RateLimitSettings{
		Limit:  valueOr(r.Limit, constants.TriggerRateLimit),
		Window: durationOr(r.Window, constants.TriggerRateWindow),
	}
}

// GetCache returns cache settings with defaults applied.
func (c *Config) GetCache() CacheSettings {
	cc := c.Cache
	if cc == nil {
		cc = &CacheConfig{}
	}
	return CacheSettings{
		Enabled: valueOr(cc.Enabled, false),
		TTL:     durationOr(cc.TTL, constants.ProfileCacheTTL),
	}
}

// GetLogFormat returns "text" or "json".
func (c *Config) GetLogFormat() string {
	if c.Log == nil {
		return "text"
	}
	return valueOr(c.Log.Format, "text")
}

// Validate checks values that cannot be silently defaulted.
func (c *Config) Validate() error {
	durations := map[string]*string{}
	if c.Server != nil {
		durations["server.shutdown_timeout"] = c.Server.ShutdownTimeout
	}
	if c.RateLimit != nil {
		durations["rate_limit.window"] = c.RateLimit.Window
	}
	if c.Cache != nil {
		durations["cache.ttl"] = c.Cache.TTL
	}
	for key, v := range durations {
		if v == nil {
			continue
		}
		if d, err := duration.ParseSpan(*v); err != nil || d <= 0 {
			return fmt.Errorf("invalid %s: %q", key, *v)
		}
	}

	s := c.GetSearch()
	p := c.GetPipeline()
	bounded := []struct {
		key      string
		value    int
		maxValue int
	}{
		{"search.max_queries", s.MaxQueries, constants.MaxQueries},
		{"search.num_results", s.NumResults, constants.SearchNumResults},
		{"pipeline.max_candidates", p.MaxCandidates, constants.MaxCandidates},
		{"pipeline.enrich_workers", p.EnrichWorkers, constants.MaxEnrichWorkers},
		{"pipeline.max_results", p.MaxResults, constants.MaxResults},
	}
	for _, b := range bounded {
		if b.value < 1 || b.value > b.maxValue {
			return fmt.Errorf("invalid %s: %d (must be 1-%d)", b.key, b.value, b.maxValue)
		}
	}
	if p.ScoreThreshold < 0 || p.ScoreThreshold > 100 {
		return fmt.Errorf("invalid pipeline.score_threshold: %d (must be 0-100)", p.ScoreThreshold)
	}

	if r := c.GetRateLimit(); r.Limit < 1 {
		return fmt.Errorf("invalid rate_limit.limit: %d", r.Limit)
	}

	switch c.GetLogFormat() {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format: %s (must be text or json)", c.GetLogFormat())
	}
	return nil
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".sonar"
	}
	return filepath.Join(configDir, "sonar")
}

// ConfigPath returns the path to the global config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".sonar.yaml"
}

// Load loads the global config and merges any local .sonar.yaml on top.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath(), LocalConfigPath())
}

// LoadFrom loads config from explicit global and local paths. Missing
// files are skipped.
func LoadFrom(globalPath, localPath string) (*Config, error) {
	cfg := &Config{DefaultFormat: "table"}

	global, err := readFile(globalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load global config: %w", err)
	}
	if global != nil {
		cfg = mergeConfig(cfg, global)
	}

	local, err := readFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load local config: %w", err)
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Secrets are only ever read from the environment.

// GetGitHubToken returns GITHUB_TOKEN. An empty token means unauthenticated,
// lower-quota access to the profile-data source.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// GetSearchAPIKey returns SONAR_SEARCH_API_KEY.
func (c *Config) GetSearchAPIKey() string {
	return os.Getenv("SONAR_SEARCH_API_KEY")
}

// GetDatabaseURL returns DATABASE_URL.
func (c *Config) GetDatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// GetRedisURL returns REDIS_URL. When empty an in-process limiter is used.
func (c *Config) GetRedisURL() string {
	return os.Getenv("REDIS_URL")
}

// GetJWTSecret returns SONAR_JWT_SECRET.
func (c *Config) GetJWTSecret() string {
	return os.Getenv("SONAR_JWT_SECRET")
}

// DefaultConfig returns a fully populated config with all default values.
func DefaultConfig() *Config {
	srv := ServerSettings{ListenAddr: constants.DefaultListenAddr, ShutdownTimeout: constants.ShutdownTimeout}
	search := (&Config{}).GetSearch()
	pipeline := (&Config{}).GetPipeline()
	rl := (&Config{}).GetRateLimit()
	cc := (&Config{}).GetCache()
	weights := DefaultScoreWeights()

	shutdown := srv.ShutdownTimeout.String()
	window := rl.Window.String()
	ttl := cc.TTL.String()
	baseURL := ""
	logFormat := "text"

	return &Config{
		DefaultFormat: "table",
		Server: &ServerConfig{
			ListenAddr:      &srv.ListenAddr,
			ShutdownTimeout: &shutdown,
		},
		Search: &SearchConfig{
			Endpoint:      &search.Endpoint,
			Domain:        &search.Domain,
			NumResults:    &search.NumResults,
			MaxQueries:    &search.MaxQueries,
			RetryAttempts: &search.RetryAttempts,
		},
		GitHub: &GitHubConfig{BaseURL: &baseURL},
		Pipeline: &PipelineConfig{
			MaxCandidates:  &pipeline.MaxCandidates,
			EnrichWorkers:  &pipeline.EnrichWorkers,
			ScoreThreshold: &pipeline.ScoreThreshold,
			MaxResults:     &pipeline.MaxResults,
		},
		RateLimit: &RateLimitConfig{Limit: &rl.Limit, Window: &window},
		Cache:     &CacheConfig{Enabled: &cc.Enabled, TTL: &ttl},
		Log:       &LogConfig{Format: &logFormat},
		Scoring:   weights.Overrides(),
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# Sonar configuration file
# See: sonar config defaults  (for all available options)

# CLI output format: table or json
default_format: table

# Secrets are read from the environment only:
#   GITHUB_TOKEN, SONAR_SEARCH_API_KEY, DATABASE_URL, REDIS_URL, SONAR_JWT_SECRET

# pipeline:
#   enrich_workers: 1     # 1 = sequential, up to 5
#   score_threshold: 35

# rate_limit:
#   limit: 5
#   window: 60s

# cache:
#   enabled: true
#   ttl: 6h

# scoring:
#   location_bonus: 12
#   hireable_bonus: 5
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

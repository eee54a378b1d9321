package config

// pick returns local when set, otherwise global.
func pick[T any](global, local *T) *T {
	if local != nil {
		return local
	}
	return global
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{
		DefaultFormat: global.DefaultFormat,
	}
	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	}

	result.Server = mergeServer(global.Server, local.Server)
	result.Search = mergeSearch(global.Search, local.Search)
	result.GitHub = mergeGitHub(global.GitHub, local.GitHub)
	result.Pipeline = mergePipeline(global.Pipeline, local.Pipeline)
	result.RateLimit = mergeRateLimit(global.RateLimit, local.RateLimit)
	result.Cache = mergeCache(global.Cache, local.Cache)
	result.Log = mergeLog(global.Log, local.Log)
	result.Scoring = mergeScoringOverrides(global.Scoring, local.Scoring)

	return result
}

func mergeServer(global, local *ServerConfig) *ServerConfig {
	if global == nil || local == nil {
		return pick(global, local)
	}
	return &ServerConfig{
		ListenAddr:      pick(global.ListenAddr, local.ListenAddr),
		ShutdownTimeout: pick(global.ShutdownTimeout, local.ShutdownTimeout),
	}
}

func mergeSearch(global, local *SearchConfig) *SearchConfig {
	if global == nil || local == nil {
		return pick(global, local)
	}
	return &SearchConfig{
		Endpoint:      pick(global.Endpoint, local.Endpoint),
		Domain:        pick(global.Domain, local.Domain),
		NumResults:    pick(global.NumResults, local.NumResults),
		MaxQueries:    pick(global.MaxQueries, local.MaxQueries),
		RetryAttempts: pick(global.RetryAttempts, local.RetryAttempts),
	}
}

func mergeGitHub(global, local *GitHubConfig) *GitHubConfig {
	if global == nil || local == nil {
		return pick(global, local)
	}
	return &GitHubConfig{BaseURL: pick(global.BaseURL, local.BaseURL)}
}

func mergePipeline(global, local *PipelineConfig) *PipelineConfig {
	if global == nil || local == nil {
		return pick(global, local)
	}
	return &PipelineConfig{
		MaxCandidates:  pick(global.MaxCandidates, local.MaxCandidates),
		EnrichWorkers:  pick(global.EnrichWorkers, local.EnrichWorkers),
		ScoreThreshold: pick(global.ScoreThreshold, local.ScoreThreshold),
		MaxResults:     pick(global.MaxResults, local.MaxResults),
	}
}

func mergeRateLimit(global, local *RateLimitConfig) *RateLimitConfig {
	if global == nil || local == nil {
		return pick(global, local)
	}
	return &RateLimitConfig{
		Limit:  pick(global.Limit, local.Limit),
		Window: pick(global.Window, local.Window),
	}
}

func mergeCache(global, local *CacheConfig) *CacheConfig {
	if global == nil || local == nil {
		return pick(global, local)
	}
	return &CacheConfig{
		Enabled: pick(global.Enabled, local.Enabled),
		TTL:     pick(global.TTL, local.TTL),
	}
}

func mergeLog(global, local *LogConfig) *LogConfig {
	if global == nil || local == nil {
		return pick(global, local)
	}
	return &LogConfig{Format: pick(global.Format, local.Format)}
}

func mergeScoringOverrides(global, local *ScoringOverrides) *ScoringOverrides {
	if global == nil || local == nil {
		return pick(global, local)
	}
	return &ScoringOverrides{
		Base:                 pick(global.Base, local.Base),
		SkillMatchBonus:      pick(global.SkillMatchBonus, local.SkillMatchBonus),
		SkillMatchMax:        pick(global.SkillMatchMax, local.SkillMatchMax),
		PrimaryLanguageBonus: pick(global.PrimaryLanguageBonus, local.PrimaryLanguageBonus),
		NoSkillPenalty:       pick(global.NoSkillPenalty, local.NoSkillPenalty),
		LocationBonus:        pick(global.LocationBonus, local.LocationBonus),
		SeniorAccountBonus:   pick(global.SeniorAccountBonus, local.SeniorAccountBonus),
		EstablishedBonus:     pick(global.EstablishedBonus, local.EstablishedBonus),
		EmergingBonus:        pick(global.EmergingBonus, local.EmergingBonus),
		VeryActiveBonus:      pick(global.VeryActiveBonus, local.VeryActiveBonus),
		ActiveBonus:          pick(global.ActiveBonus, local.ActiveBonus),
		ModerateBonus:        pick(global.ModerateBonus, local.ModerateBonus),
		InactivePenalty:      pick(global.InactivePenalty, local.InactivePenalty),
		StarsHighBonus:       pick(global.StarsHighBonus, local.StarsHighBonus),
		StarsMidBonus:        pick(global.StarsMidBonus, local.StarsMidBonus),
		StarsLowBonus:        pick(global.StarsLowBonus, local.StarsLowBonus),
		FollowersHighBonus:   pick(global.FollowersHighBonus, local.FollowersHighBonus),
		FollowersMidBonus:    pick(global.FollowersMidBonus, local.FollowersMidBonus),
		ProjectTypeBonus:     pick(global.ProjectTypeBonus, local.ProjectTypeBonus),
		HireableBonus:        pick(global.HireableBonus, local.HireableBonus),
	}
}

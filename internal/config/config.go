package config

import "time"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Mitigation MitigationConfig `mapstructure:"mitigation"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// MitigationConfig selects a preset by name and optionally overrides
// individual thresholds. Zero-valued fields keep the preset's value.
type MitigationConfig struct {
	Preset         string                 `mapstructure:"preset"`
	RateLimit      RateLimitSettings      `mapstructure:"rate_limit"`
	CircuitBreaker CircuitBreakerSettings `mapstructure:"circuit_breaker"`
	Fusion         FusionSettings         `mapstructure:"fusion"`
}

type RateLimitSettings struct {
	MaxTokens     float64  `mapstructure:"max_tokens"`
	RefillRate    float64  `mapstructure:"refill_rate"`
	InitialTokens *float64 `mapstructure:"initial_tokens"`
}

type CircuitBreakerSettings struct {
	FailureThreshold int           `mapstructure:"failure_threshold"`
	SuccessThreshold int           `mapstructure:"success_threshold"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

type FusionSettings struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
}

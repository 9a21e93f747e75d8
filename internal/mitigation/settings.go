package mitigation

import (
	"fmt"

	"github.com/chunkflow/stormgate/internal/config"
)

// ConfigFromSettings resolves loaded settings into a concrete gateway
// config: the named preset supplies the baseline and any non-zero setting
// overrides it. An empty preset name means "default".
func ConfigFromSettings(settings config.MitigationConfig) (StormMitigationConfig, error) {
	var cfg StormMitigationConfig

	switch settings.Preset {
	case "", "default":
		cfg = DefaultConfig()
	case "aggressive":
		cfg = AggressiveConfig()
	case "lenient":
		cfg = LenientConfig()
	default:
		return StormMitigationConfig{}, fmt.Errorf("unknown mitigation preset: %s", settings.Preset)
	}

	if settings.RateLimit.MaxTokens > 0 {
		cfg.RateLimit.MaxTokens = settings.RateLimit.MaxTokens
	}
	if settings.RateLimit.RefillRate > 0 {
		cfg.RateLimit.RefillRate = settings.RateLimit.RefillRate
	}
	if settings.RateLimit.InitialTokens != nil {
		cfg.RateLimit.InitialTokens = settings.RateLimit.InitialTokens
	}
	if settings.CircuitBreaker.FailureThreshold > 0 {
		cfg.CircuitBreaker.FailureThreshold = settings.CircuitBreaker.FailureThreshold
	}
	if settings.CircuitBreaker.SuccessThreshold > 0 {
		cfg.CircuitBreaker.SuccessThreshold = settings.CircuitBreaker.SuccessThreshold
	}
	if settings.CircuitBreaker.Timeout > 0 {
		cfg.CircuitBreaker.Timeout = settings.CircuitBreaker.Timeout
	}
	if settings.Fusion.SimilarityThreshold > 0 {
		cfg.Fusion.SimilarityThreshold = settings.Fusion.SimilarityThreshold
	}

	return cfg, nil
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "default", cfg.Mitigation.Preset)
	assert.Zero(t, cfg.Mitigation.RateLimit.MaxTokens)
	assert.Nil(t, cfg.Mitigation.RateLimit.InitialTokens)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STORM_SERVER_PORT", ":9090")
	t.Setenv("STORM_MITIGATION_PRESET", "aggressive")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "aggressive", cfg.Mitigation.Preset)
}

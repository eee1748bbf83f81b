package engineconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaultsWhenUnset(t *testing.T) {
	t.Setenv("COUNCIL_DEFAULT_BUDGET", "")
	t.Setenv("COUNCIL_DEFAULT_LLM_PROVIDER", "")
	t.Setenv("COUNCIL_LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.DefaultBudgetSeconds)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DefaultLLMProvider)
}

func TestLoad_ReadsOverridesFromEnvironment(t *testing.T) {
	t.Setenv("COUNCIL_DEFAULT_BUDGET", "90")
	t.Setenv("COUNCIL_DEFAULT_LLM_PROVIDER", "openai")
	t.Setenv("COUNCIL_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.DefaultBudgetSeconds)
	assert.Equal(t, "openai", cfg.DefaultLLMProvider)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestDefaultBudget_UsesConfiguredSeconds(t *testing.T) {
	cfg := &EngineConfig{DefaultBudgetSeconds: 5}
	b := cfg.DefaultBudget()
	assert.InDelta(t, 5*time.Second, b.Duration(), float64(time.Millisecond))
}

func TestDefaultBudget_FallsBackWhenNonPositive(t *testing.T) {
	cfg := &EngineConfig{DefaultBudgetSeconds: 0}
	b := cfg.DefaultBudget()
	assert.Equal(t, 30*time.Second, b.Duration())
}

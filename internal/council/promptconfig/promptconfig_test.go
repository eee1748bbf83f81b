package promptconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLLMConfig_YAMLParametersOverrideEnv(t *testing.T) {
	t.Setenv("TESTPROVIDER_TEMPERATURE", "1.5")
	t.Setenv("TESTPROVIDER_MAX_TOKENS", "256")

	path := writeFile(t, `
kind: LLMConfig
version: v1
metadata:
  name: demo
spec:
  description: a test config
  provider:
    name: testprovider
    description: fake
  parameters:
    temperature: 0.2
`)

	cfg, err := LoadLLMConfig(path, "TESTPROVIDER_")
	require.NoError(t, err)
	require.NotNil(t, cfg.Spec.Parameters.Temperature)
	assert.Equal(t, 0.2, *cfg.Spec.Parameters.Temperature)
	require.NotNil(t, cfg.Spec.Parameters.MaxTokens)
	assert.Equal(t, 256, *cfg.Spec.Parameters.MaxTokens)
	assert.Equal(t, 1, *cfg.Spec.Parameters.N)
	assert.Equal(t, 30, *cfg.Spec.Parameters.Timeout)
}

func TestLoadLLMConfig_RejectsOutOfRangeTemperature(t *testing.T) {
	path := writeFile(t, `
kind: LLMConfig
spec:
  provider:
    name: testprovider
  parameters:
    temperature: 3.5
`)
	_, err := LoadLLMConfig(path, "TESTPROVIDER_")
	require.Error(t, err)
}

func TestSelectTemplate_ExactModelWinsOverFamily(t *testing.T) {
	entries := []PromptEntry{
		{ModelFamily: "gpt-", Template: "family"},
		{Model: "gpt-4o", Template: "exact"},
		{Model: "default", Template: "fallback"},
	}
	got, err := SelectTemplate(entries, "gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "exact", got)
}

func TestSelectTemplate_FamilyPrefixWinsOverDefault(t *testing.T) {
	entries := []PromptEntry{
		{Model: "default", Template: "fallback"},
		{ModelFamily: "claude-", Template: "family"},
	}
	got, err := SelectTemplate(entries, "claude-3-opus")
	require.NoError(t, err)
	assert.Equal(t, "family", got)
}

func TestSelectTemplate_FallsBackToDefault(t *testing.T) {
	entries := []PromptEntry{{Model: "default", Template: "fallback"}}
	got, err := SelectTemplate(entries, "unknown-model")
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
}

func TestSelectTemplate_NoMatchFails(t *testing.T) {
	entries := []PromptEntry{{Model: "gpt-4o", Template: "exact"}}
	_, err := SelectTemplate(entries, "claude-3-opus")
	require.Error(t, err)
}

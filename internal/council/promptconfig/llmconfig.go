// Package promptconfig loads LLMConfig and LLMPrompt YAML records:
// provider parameters and selection, and model/model-family-scoped
// prompt templates.
package promptconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parameters enumerates the provider options the engine recognizes.
// Pointers distinguish "unset" from the zero value for fields with no
// universal default.
type Parameters struct {
	Temperature      *float64 `yaml:"temperature"`
	TopP             *float64 `yaml:"top_p"`
	TopK             *int     `yaml:"top_k"`
	N                *int     `yaml:"n"`
	MaxTokens        *int     `yaml:"max_tokens"`
	PresencePenalty  *float64 `yaml:"presence_penalty"`
	FrequencyPenalty *float64 `yaml:"frequency_penalty"`
	Timeout          *int     `yaml:"timeout"`
}

// ApplyDefaults fills in the table's defaults for every field left unset,
// mutating p in place.
func (p *Parameters) ApplyDefaults() {
	if p.Temperature == nil {
		p.Temperature = floatPtr(0.0)
	}
	if p.N == nil {
		p.N = intPtr(1)
	}
	if p.Timeout == nil {
		p.Timeout = intPtr(30)
	}
}

// Validate enforces the table's ranges.
func (p *Parameters) Validate() error {
	if p.Temperature != nil && (*p.Temperature < 0 || *p.Temperature > 2) {
		return fmt.Errorf("promptconfig: temperature %v out of range [0, 2]", *p.Temperature)
	}
	if p.TopP != nil && (*p.TopP < 0 || *p.TopP > 1) {
		return fmt.Errorf("promptconfig: top_p %v out of range [0, 1]", *p.TopP)
	}
	if p.TopK != nil && *p.TopK <= 0 {
		return fmt.Errorf("promptconfig: top_k %v must be > 0", *p.TopK)
	}
	if p.N != nil && *p.N <= 0 {
		return fmt.Errorf("promptconfig: n %v must be > 0", *p.N)
	}
	if p.MaxTokens != nil && *p.MaxTokens <= 0 {
		return fmt.Errorf("promptconfig: max_tokens %v must be > 0", *p.MaxTokens)
	}
	if p.PresencePenalty != nil && (*p.PresencePenalty < -2 || *p.PresencePenalty > 2) {
		return fmt.Errorf("promptconfig: presence_penalty %v out of range [-2, 2]", *p.PresencePenalty)
	}
	if p.FrequencyPenalty != nil && (*p.FrequencyPenalty < -2 || *p.FrequencyPenalty > 2) {
		return fmt.Errorf("promptconfig: frequency_penalty %v out of range [-2, 2]", *p.FrequencyPenalty)
	}
	if p.Timeout != nil && *p.Timeout <= 0 {
		return fmt.Errorf("promptconfig: timeout %v must be > 0 seconds", *p.Timeout)
	}
	return nil
}

// ProviderSpec is the provider block inside an LLMConfig spec: a name, a
// description, and an open bag of provider-specific keys (e.g.
// "api_key", "endpoint") the caller's provider constructor interprets.
type ProviderSpec struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Extra       map[string]any `yaml:",inline"`
}

// Metadata is the free-form metadata block every LLMConfig/LLMPrompt/
// LLMDataset record carries.
type Metadata struct {
	Name  string         `yaml:"name"`
	Extra map[string]any `yaml:",inline"`
}

// LLMConfigSpec is the "spec" body of an LLMConfig record.
type LLMConfigSpec struct {
	Description      string       `yaml:"description"`
	Provider         ProviderSpec `yaml:"provider"`
	Parameters       *Parameters  `yaml:"parameters"`
	FallbackProvider string       `yaml:"fallbackProvider"`
}

// LLMConfig is the top-level declarative record: provider selection plus
// its call parameters.
type LLMConfig struct {
	Kind     string        `yaml:"kind"`
	Version  string        `yaml:"version"`
	Metadata Metadata      `yaml:"metadata"`
	Spec     LLMConfigSpec `yaml:"spec"`
}

// LoadLLMConfig reads an LLMConfig record from filename, seeds its
// Parameters from environment variables named with envPrefix (e.g.
// "OPENAI_"), then overlays whatever the YAML spec sets explicitly —
// YAML-set fields always win over their environment default.
func LoadLLMConfig(filename, envPrefix string) (*LLMConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("promptconfig: reading %s: %w", filename, err)
	}

	var cfg LLMConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("promptconfig: unmarshaling %s: %w", filename, err)
	}
	if cfg.Kind != "" && cfg.Kind != "LLMConfig" {
		return nil, fmt.Errorf("promptconfig: %s has kind %q, want LLMConfig", filename, cfg.Kind)
	}

	envParams := parametersFromEnv(envPrefix)
	if cfg.Spec.Parameters == nil {
		cfg.Spec.Parameters = envParams
	} else {
		cfg.Spec.Parameters = mergeParameters(envParams, cfg.Spec.Parameters)
	}
	cfg.Spec.Parameters.ApplyDefaults()

	if err := cfg.Spec.Parameters.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeParameters returns a Parameters where every field set in yamlParams
// wins, falling back to envParams for anything yamlParams leaves unset.
func mergeParameters(envParams, yamlParams *Parameters) *Parameters {
	merged := *envParams
	if yamlParams.Temperature != nil {
		merged.Temperature = yamlParams.Temperature
	}
	if yamlParams.TopP != nil {
		merged.TopP = yamlParams.TopP
	}
	if yamlParams.TopK != nil {
		merged.TopK = yamlParams.TopK
	}
	if yamlParams.N != nil {
		merged.N = yamlParams.N
	}
	if yamlParams.MaxTokens != nil {
		merged.MaxTokens = yamlParams.MaxTokens
	}
	if yamlParams.PresencePenalty != nil {
		merged.PresencePenalty = yamlParams.PresencePenalty
	}
	if yamlParams.FrequencyPenalty != nil {
		merged.FrequencyPenalty = yamlParams.FrequencyPenalty
	}
	if yamlParams.Timeout != nil {
		merged.Timeout = yamlParams.Timeout
	}
	return &merged
}

func parametersFromEnv(prefix string) *Parameters {
	p := &Parameters{}
	p.Temperature = envFloat(prefix + "TEMPERATURE")
	p.TopP = envFloat(prefix + "TOP_P")
	p.TopK = envInt(prefix + "TOP_K")
	p.N = envInt(prefix + "N")
	p.MaxTokens = envInt(prefix + "MAX_TOKENS")
	p.PresencePenalty = envFloat(prefix + "PRESENCE_PENALTY")
	p.FrequencyPenalty = envFloat(prefix + "FREQUENCY_PENALTY")
	p.Timeout = envInt(prefix + "TIMEOUT")
	return p
}

func envFloat(key string) *float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func envInt(key string) *int {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

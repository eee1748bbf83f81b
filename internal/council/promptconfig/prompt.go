package promptconfig

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PromptEntry is one templated entry in an LLMPrompt's system or user
// list: keyed either by an exact model name or a model-family prefix.
type PromptEntry struct {
	Model       string `yaml:"model,omitempty"`
	ModelFamily string `yaml:"model-family,omitempty"`
	Template    string `yaml:"template"`
}

// LLMPromptSpec is the "spec" body of an LLMPrompt record.
type LLMPromptSpec struct {
	System []PromptEntry `yaml:"system"`
	User   []PromptEntry `yaml:"user,omitempty"`
}

// LLMPrompt is the top-level declarative record: named system/user
// prompt templates scoped by model or model family.
type LLMPrompt struct {
	Kind     string        `yaml:"kind"`
	Metadata Metadata      `yaml:"metadata"`
	Spec     LLMPromptSpec `yaml:"spec"`
}

// LoadLLMPrompt reads an LLMPrompt record from filename.
func LoadLLMPrompt(filename string) (*LLMPrompt, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("promptconfig: reading %s: %w", filename, err)
	}
	var p LLMPrompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("promptconfig: unmarshaling %s: %w", filename, err)
	}
	if p.Kind != "" && p.Kind != "LLMPrompt" {
		return nil, fmt.Errorf("promptconfig: %s has kind %q, want LLMPrompt", filename, p.Kind)
	}
	return &p, nil
}

// SelectTemplate returns the first entry whose Model matches model
// exactly, else the first whose ModelFamily prefix-matches model, else
// the first entry keyed to the synthetic model name "default";
// otherwise an error.
func SelectTemplate(entries []PromptEntry, model string) (string, error) {
	for _, e := range entries {
		if e.Model != "" && e.Model == model {
			return e.Template, nil
		}
	}
	for _, e := range entries {
		if e.ModelFamily != "" && strings.HasPrefix(model, e.ModelFamily) {
			return e.Template, nil
		}
	}
	for _, e := range entries {
		if e.Model == "default" {
			return e.Template, nil
		}
	}
	return "", fmt.Errorf("promptconfig: no prompt template matches model %q", model)
}

// System selects this prompt's system template for model.
func (p *LLMPrompt) System(model string) (string, error) {
	return SelectTemplate(p.Spec.System, model)
}

// User selects this prompt's user template for model, if any are defined.
func (p *LLMPrompt) User(model string) (string, error) {
	if len(p.Spec.User) == 0 {
		return "", fmt.Errorf("promptconfig: prompt %q has no user templates", p.Metadata.Name)
	}
	return SelectTemplate(p.Spec.User, model)
}

// Package engineconfig loads the engine-level configuration threaded
// top-down through an Agent and its chains, from environment variables
// via struct tags.
package engineconfig

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/chain-ml/council-sub000/internal/council/budget"
)

// EngineConfig carries engine-wide defaults read from environment
// variables: the default iteration budget, the default LLM provider,
// and the logger verbosity.
type EngineConfig struct {
	// DefaultBudgetSeconds sizes the Budget returned by DefaultBudget.
	DefaultBudgetSeconds int `env:"COUNCIL_DEFAULT_BUDGET" envDefault:"30"`
	// DefaultLLMProvider names the default LLM provider. This package only
	// loads the value; no other package in this module reads it.
	DefaultLLMProvider string `env:"COUNCIL_DEFAULT_LLM_PROVIDER"`
	// LogLevel is kept as a string and not validated here; the caller
	// parses it with zerolog.ParseLevel (cmd/council-demo falls back to
	// info when parsing fails).
	LogLevel string `env:"COUNCIL_LOG_LEVEL" envDefault:"info"`
}

// Load reads EngineConfig from the process environment, applying the
// envDefault tags for anything unset.
func Load() (*EngineConfig, error) {
	cfg := &EngineConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultBudget returns a fresh Budget sized by DefaultBudgetSeconds.
func (c *EngineConfig) DefaultBudget() *budget.Budget {
	seconds := c.DefaultBudgetSeconds
	if seconds <= 0 {
		seconds = 30
	}
	return budget.New(time.Duration(seconds) * time.Second)
}

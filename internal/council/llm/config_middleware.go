package llm

import "context"

// ConfigurationMutator mutates an LLMBase's configuration map in place.
type ConfigurationMutator func(config map[string]any)

// ConfigurationModifier applies mutate to base's Configuration() before
// delegating to next. The mutation is persistent: it is not undone after
// the call, so later requests on the same provider observe it too. This
// is intentional — it is how a chain step narrows temperature or swaps a
// model for the remainder of a run.
func ConfigurationModifier(base LLMBase, mutate ConfigurationMutator) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) (LLMResult, error) {
			if cfg := base.Configuration(); cfg != nil {
				mutate(cfg)
			}
			return next(ctx, req)
		}
	}
}

package llm

import (
	"context"
	"time"

	"github.com/chain-ml/council-sub000/internal/council/budget"
)

// measuring wraps base's PostChatRequest, timing the call and ensuring the
// result carries at least a "call" and "duration" Consumption even when
// the provider itself didn't report them.
func measuring(base LLMBase) Handler {
	return func(ctx context.Context, req Request) (LLMResult, error) {
		start := time.Now()
		res, err := base.PostChatRequest(ctx, req)
		elapsed := time.Since(start)
		if err != nil {
			return LLMResult{}, err
		}

		hasCall, hasDuration := false, false
		for _, c := range res.Consumptions {
			if c.Kind == "call" {
				hasCall = true
			}
			if c.Kind == "duration" {
				hasDuration = true
			}
		}
		if !hasCall {
			res.Consumptions = append(res.Consumptions, budget.Consumption{Value: 1, Unit: "count", Kind: "call"})
		}
		if !hasDuration {
			res.Consumptions = append(res.Consumptions, budget.Consumption{Value: elapsed.Seconds(), Unit: "seconds", Kind: "duration"})
		}
		return res, nil
	}
}

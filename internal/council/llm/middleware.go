package llm

import "context"

// Handler is the signature every middleware wraps: given a request,
// produce a result or an error.
type Handler func(ctx context.Context, req Request) (LLMResult, error)

// Middleware wraps a Handler to produce another Handler. Composition is
// outside-in: the first Middleware in a Chain call is the outermost layer
// and sees the request before any other, matching "outer middleware
// wraps inner; same request observed by each layer in a defined order."
type Middleware func(next Handler) Handler

// Chain builds the full middleware stack around base, with middlewares[0]
// outermost and base's own call as the innermost handler. The innermost
// handler always contributes a "call" and "duration" Consumption if the
// provider didn't already report them, so every result carries the
// invariant minimum consumption set even for minimal test providers.
func Chain(base LLMBase, middlewares ...Middleware) Handler {
	var h Handler = measuring(base)
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

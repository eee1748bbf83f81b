package llm

import (
	"context"

	"github.com/rs/zerolog"
)

// LogVerbosity controls how much of a request/response the Logging
// middleware writes.
type LogVerbosity int

const (
	Minimal LogVerbosity = iota
	Verbose
)

// LoggingOptions configures the Logging middleware.
type LoggingOptions struct {
	Verbosity       LogVerbosity
	LogConsumptions bool
}

// Logging writes request/response metadata to log before and after
// delegating to next. At Minimal it logs only message counts; at
// Verbose it also logs message content.
func Logging(log zerolog.Logger, opts LoggingOptions) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) (LLMResult, error) {
			ev := log.Debug().Int("messages", len(req.Messages))
			if opts.Verbosity == Verbose {
				for _, m := range req.Messages {
					ev = ev.Str("role:"+m.Role.String(), m.Content)
				}
			}
			ev.Msg("llm request")

			res, err := next(ctx, req)
			if err != nil {
				log.Error().Err(err).Msg("llm request failed")
				return res, err
			}

			done := log.Debug().Int("choices", len(res.Choices))
			if opts.LogConsumptions {
				for _, c := range res.Consumptions {
					done = done.Float64(c.Kind+"_"+c.Unit, c.Value)
				}
			}
			if opts.Verbosity == Verbose {
				done = done.Str("response", res.FirstChoice())
			}
			done.Msg("llm response")
			return res, nil
		}
	}
}

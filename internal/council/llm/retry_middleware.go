package llm

import (
	"context"
	"errors"
	"time"
)

// RetryFilter decides whether an error returned by the wrapped handler is
// worth retrying; nil means retry any error.
type RetryFilter func(err error) bool

// Retry re-attempts the wrapped handler up to attempts times with a fixed
// delay between tries, raising LLMOutOfRetries once exhausted. An
// optional filter restricts retries to errors it approves of; any other
// error is returned immediately without consuming an attempt.
func Retry(attempts int, delay time.Duration, filter RetryFilter) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) (LLMResult, error) {
			var lastErr error
			for attempt := 1; attempt <= attempts; attempt++ {
				res, err := next(ctx, req)
				if err == nil {
					return res, nil
				}
				lastErr = err
				if filter != nil && !filter(err) {
					return LLMResult{}, err
				}
				if attempt < attempts {
					select {
					case <-time.After(delay):
					case <-ctx.Done():
						return LLMResult{}, ctx.Err()
					}
				}
			}
			return LLMResult{}, &LLMOutOfRetries{Attempts: attempts, Cause: lastErr}
		}
	}
}

// RetryableStatus is a RetryFilter matching the status codes LLMFallback
// treats as retryable: 408, 429, 503, 504.
func RetryableStatus(err error) bool {
	var callErr *LLMCallException
	if errors.As(err, &callErr) {
		return callErr.Retryable()
	}
	return false
}

package llm

import (
	"context"
	"errors"
	"math"
	"time"
)

// Fallback calls primary with exponential backoff on retryable HTTP
// codes (408, 429, 503, 504); on a non-retryable error, or once retries
// are exhausted, it calls fallback. If fallback also fails, the returned
// error wraps fallback's error with primary's as cause.
type Fallback struct {
	Primary      LLMBase
	Secondary    LLMBase
	Retries      int
	InitialDelay time.Duration
}

// NewFallback builds a Fallback provider. retries is the number of
// primary attempts before giving up on it (1 means no retry, just one
// try).
func NewFallback(primary, secondary LLMBase, retries int, initialDelay time.Duration) *Fallback {
	if retries <= 0 {
		retries = 1
	}
	if initialDelay <= 0 {
		initialDelay = 200 * time.Millisecond
	}
	return &Fallback{Primary: primary, Secondary: secondary, Retries: retries, InitialDelay: initialDelay}
}

func (f *Fallback) Configuration() map[string]any { return f.Primary.Configuration() }

func (f *Fallback) PostChatRequest(ctx context.Context, req Request) (LLMResult, error) {
	var primaryErr error
	for attempt := 0; attempt < f.Retries; attempt++ {
		res, err := f.Primary.PostChatRequest(ctx, req)
		if err == nil {
			return res, nil
		}
		primaryErr = err

		var callErr *LLMCallException
		if !errors.As(err, &callErr) || !callErr.Retryable() {
			break
		}
		if attempt < f.Retries-1 {
			delay := f.InitialDelay * time.Duration(math.Pow(2, float64(attempt)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return LLMResult{}, ctx.Err()
			}
		}
	}

	res, err := f.Secondary.PostChatRequest(ctx, req)
	if err != nil {
		return LLMResult{}, &fallbackError{secondary: err, primary: primaryErr}
	}
	return res, nil
}

type fallbackError struct {
	secondary error
	primary   error
}

func (e *fallbackError) Error() string {
	return "fallback provider also failed: " + e.secondary.Error()
}
func (e *fallbackError) Unwrap() error { return e.primary }

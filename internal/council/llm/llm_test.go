package llm

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls  int32
	config map[string]any
	fail   func(attempt int) error
}

func (p *fakeProvider) Configuration() map[string]any { return p.config }

func (p *fakeProvider) PostChatRequest(ctx context.Context, req Request) (LLMResult, error) {
	n := atomic.AddInt32(&p.calls, 1)
	if p.fail != nil {
		if err := p.fail(int(n)); err != nil {
			return LLMResult{}, err
		}
	}
	return LLMResult{Choices: []string{"ok"}}, nil
}

func TestMeasuring_AddsCallAndDurationConsumption(t *testing.T) {
	p := &fakeProvider{}
	h := Chain(p)
	res, err := h(context.Background(), Request{Messages: []LLMMessage{NewUserMessage("hi")}})
	require.NoError(t, err)

	var sawCall, sawDuration bool
	for _, c := range res.Consumptions {
		if c.Kind == "call" {
			sawCall = true
		}
		if c.Kind == "duration" {
			sawDuration = true
		}
	}
	assert.True(t, sawCall)
	assert.True(t, sawDuration)
}

func TestRetry_ExhaustsAndWrapsLastError(t *testing.T) {
	p := &fakeProvider{fail: func(int) error { return &LLMCallException{Code: 429, Message: "rate limited"} }}
	h := Chain(p, Retry(3, time.Millisecond, RetryableStatus))

	_, err := h(context.Background(), Request{})
	require.Error(t, err)
	var outOfRetries *LLMOutOfRetries
	require.ErrorAs(t, err, &outOfRetries)
	assert.Equal(t, 3, outOfRetries.Attempts)
	assert.Equal(t, int32(3), p.calls)
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	p := &fakeProvider{fail: func(n int) error {
		if n < 3 {
			return &LLMCallException{Code: 503, Message: "unavailable"}
		}
		return nil
	}}
	h := Chain(p, Retry(5, time.Millisecond, RetryableStatus))

	res, err := h(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.FirstChoice())
	assert.Equal(t, int32(3), p.calls)
}

func TestCaching_S5_HitAvoidsSecondCallAndPrefixesConsumption(t *testing.T) {
	p := &fakeProvider{config: map[string]any{"model": "test-model"}}
	middleware := Caching(CachingOptions{TTL: time.Minute, MaxSize: 10})
	h := Chain(p, middleware)

	ctx := WithBase(context.Background(), p)
	req := Request{Messages: []LLMMessage{NewUserMessage("hello")}}

	first, err := h(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.calls)

	second, err := h(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.calls, "cache hit must not call through")

	var sawCachedDuration bool
	for _, c := range second.Consumptions {
		if c.Kind == "duration" && c.Unit == "cached_seconds" {
			sawCachedDuration = true
			assert.Equal(t, 0.0, c.Value)
		}
	}
	assert.True(t, sawCachedDuration)
	assert.Equal(t, first.Choices, second.Choices)
}

func TestCaching_EvictsLeastRecentlyUsedBeyondMaxSize(t *testing.T) {
	p := &fakeProvider{config: map[string]any{}}
	h := Chain(p, Caching(CachingOptions{TTL: time.Minute, MaxSize: 2}))
	ctx := WithBase(context.Background(), p)

	req := func(content string) Request {
		return Request{Messages: []LLMMessage{NewUserMessage(content)}}
	}

	_, err := h(ctx, req("a"))
	require.NoError(t, err)
	_, err = h(ctx, req("b"))
	require.NoError(t, err)
	_, err = h(ctx, req("c")) // evicts "a"
	require.NoError(t, err)
	assert.Equal(t, int32(3), p.calls)

	_, err = h(ctx, req("a")) // must miss again, was evicted
	require.NoError(t, err)
	assert.Equal(t, int32(4), p.calls)

	_, err = h(ctx, req("c")) // still cached
	require.NoError(t, err)
	assert.Equal(t, int32(4), p.calls)
}

func TestFallback_UsesSecondaryAfterRetryableExhaustion(t *testing.T) {
	primary := &fakeProvider{fail: func(int) error { return &LLMCallException{Code: 503, Message: "down"} }}
	secondary := &fakeProvider{}
	fb := NewFallback(primary, secondary, 2, time.Millisecond)

	res, err := fb.PostChatRequest(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.FirstChoice())
	assert.Equal(t, int32(2), primary.calls)
	assert.Equal(t, int32(1), secondary.calls)
}

func TestFallback_NonRetryableSkipsStraightToSecondary(t *testing.T) {
	primary := &fakeProvider{fail: func(int) error { return &LLMCallException{Code: 400, Message: "bad request"} }}
	secondary := &fakeProvider{}
	fb := NewFallback(primary, secondary, 5, time.Millisecond)

	_, err := fb.PostChatRequest(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), primary.calls)
}

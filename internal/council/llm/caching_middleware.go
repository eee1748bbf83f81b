package llm

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chain-ml/council-sub000/internal/council/budget"
	"github.com/elliotchance/orderedmap/v3"
)

// CachingOptions configures the Caching middleware's sliding-window TTL
// and LRU bound.
type CachingOptions struct {
	TTL      time.Duration
	MaxSize  int
}

type cacheEntry struct {
	result    LLMResult
	expiresAt time.Time
}

// cachingState holds the ordered map backing LRU eviction. Kept separate
// from the Middleware closure so a single state can be constructed once
// and the Middleware value remains a plain function, matching this
// package's other middleware constructors.
type cachingState struct {
	mu      sync.Mutex
	entries *orderedmap.OrderedMap[string, cacheEntry]
	opts    CachingOptions
}

// Caching returns a middleware implementing the sliding-window TTL + LRU
// cache described for the LLM middleware chain: a stable hash of the
// provider's configuration, normalized messages, and kwargs is the cache
// key. A hit rebuilds the cached response with duration=0 and each
// consumption's unit prefixed "cached_", renews its TTL, and promotes it
// to most-recently-used. A miss calls through, stores the result, and
// evicts the least-recently-used entry while over MaxSize. Expired
// entries are swept lazily at the start of every call.
func Caching(opts CachingOptions) Middleware {
	if opts.MaxSize <= 0 {
		opts.MaxSize = 1000
	}
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	state := &cachingState{entries: orderedmap.NewOrderedMap[string, cacheEntry](), opts: opts}

	return func(next Handler) Handler {
		return func(ctx context.Context, req Request) (LLMResult, error) {
			base, ok := baseFromContext(ctx)
			key, err := cacheKey(base, req)
			if err != nil || !ok {
				return next(ctx, req)
			}

			state.mu.Lock()
			state.evictExpiredLocked()
			if entry, found := state.entries.Get(key); found {
				entry.expiresAt = time.Now().Add(state.opts.TTL)
				state.entries.Delete(key)
				state.entries.Set(key, entry)
				state.mu.Unlock()
				return cachedResult(entry.result), nil
			}
			state.mu.Unlock()

			res, err := next(ctx, req)
			if err != nil {
				return res, err
			}

			state.mu.Lock()
			state.entries.Set(key, cacheEntry{result: res, expiresAt: time.Now().Add(state.opts.TTL)})
			for state.entries.Len() > state.opts.MaxSize {
				oldest := state.entries.Front()
				if oldest == nil {
					break
				}
				state.entries.Delete(oldest.Key)
			}
			state.mu.Unlock()
			return res, nil
		}
	}
}

func (s *cachingState) evictExpiredLocked() {
	now := time.Now()
	var expired []string
	for el := s.entries.Front(); el != nil; el = el.Next() {
		if now.After(el.Value.expiresAt) {
			expired = append(expired, el.Key)
		}
	}
	for _, k := range expired {
		s.entries.Delete(k)
	}
}

func cachedResult(original LLMResult) LLMResult {
	consumptions := make([]budget.Consumption, len(original.Consumptions))
	for i, c := range original.Consumptions {
		if c.Kind == "duration" {
			consumptions[i] = budget.Consumption{Value: 0, Unit: "cached_" + c.Unit, Kind: c.Kind}
			continue
		}
		consumptions[i] = budget.Consumption{Value: c.Value, Unit: "cached_" + c.Unit, Kind: c.Kind}
	}
	return LLMResult{Choices: original.Choices, Consumptions: consumptions, RawResponse: original.RawResponse}
}

// cacheKey hashes {configuration, normalized messages, kwargs} into a
// stable string: the three are JSON-encoded together and the encoding's
// sha256 digest is the key.
func cacheKey(base LLMBase, req Request) (string, error) {
	type normalizedMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
		Name    string `json:"name,omitempty"`
	}
	msgs := make([]normalizedMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = normalizedMessage{Role: m.Role.String(), Content: m.Content, Name: m.Name}
	}

	kwargKeys := make([]string, 0, len(req.Kwargs))
	for k := range req.Kwargs {
		kwargKeys = append(kwargKeys, k)
	}
	sort.Strings(kwargKeys)
	sortedKwargs := make(map[string]any, len(req.Kwargs))
	for _, k := range kwargKeys {
		sortedKwargs[k] = req.Kwargs[k]
	}

	payload, err := json.Marshal(map[string]any{
		"configuration": base.Configuration(),
		"messages":      msgs,
		"kwargs":        sortedKwargs,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("sha256:%x", sum[:]), nil
}

type baseKeyType struct{}

// WithBase attaches the originating LLMBase to ctx so the Caching
// middleware can read its configuration for the hash key without every
// middleware constructor needing a direct reference to the provider.
func WithBase(ctx context.Context, base LLMBase) context.Context {
	return context.WithValue(ctx, baseKeyType{}, base)
}

func baseFromContext(ctx context.Context) (LLMBase, bool) {
	base, ok := ctx.Value(baseKeyType{}).(LLMBase)
	return base, ok
}

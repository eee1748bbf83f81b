// Package llm provides a provider-agnostic LLM call abstraction, a
// composable middleware chain around it, and a fallback wrapper for
// trying providers in order, with structured logging and sha256-keyed
// response caching available as middleware.
package llm

import (
	"context"
	"fmt"

	"github.com/chain-ml/council-sub000/internal/council/budget"
)

// Role partitions LLMMessage originators.
type Role int

const (
	System Role = iota
	User
	Assistant
)

func (r Role) String() string {
	switch r {
	case System:
		return "system"
	case User:
		return "user"
	case Assistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Attachment is opaque data carried alongside an LLMMessage (an image, a
// file reference); the provider decides how to interpret it.
type Attachment struct {
	Kind string
	Data any
}

// LLMMessage is one turn sent to the provider.
type LLMMessage struct {
	Role    Role
	Content string
	Name    string
	Data    []Attachment
}

func NewSystemMessage(content string) LLMMessage { return LLMMessage{Role: System, Content: content} }
func NewUserMessage(content string) LLMMessage   { return LLMMessage{Role: User, Content: content} }
func NewAssistantMessage(content string) LLMMessage {
	return LLMMessage{Role: Assistant, Content: content}
}

// LLMResult is what a provider call returns: one or more candidate
// completions, the consumption events it generated, and the raw response
// for callers that need provider-specific detail.
type LLMResult struct {
	Choices      []string
	Consumptions []budget.Consumption
	RawResponse  any
}

// FirstChoice returns Choices[0], or "" if there were none.
func (r LLMResult) FirstChoice() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0]
}

// Request is what flows through the middleware chain to the innermost
// handler: the messages plus free-form provider kwargs (temperature,
// topP, ...).
type Request struct {
	Messages []LLMMessage
	Kwargs   map[string]any
}

// LLMBase is the single operation every provider implements.
type LLMBase interface {
	PostChatRequest(ctx context.Context, req Request) (LLMResult, error)
	// Configuration returns the provider's mutable configuration map, the
	// target of the ConfigurationModifier middleware. Implementations
	// that have no mutable configuration may return nil.
	Configuration() map[string]any
}

// LLMCallTimeout is raised when a provider call exceeds its deadline.
type LLMCallTimeout struct {
	Timeout      float64
	ProviderName string
}

func (e *LLMCallTimeout) Error() string {
	return fmt.Sprintf("%s timed out after %.2fs", e.ProviderName, e.Timeout)
}

// LLMCallException wraps a provider HTTP/status failure.
type LLMCallException struct {
	Code         int
	Message      string
	ProviderName string
}

func (e *LLMCallException) Error() string {
	return fmt.Sprintf("%s call failed (%d): %s", e.ProviderName, e.Code, e.Message)
}

// Retryable reports whether this status code warrants LLMFallback's
// exponential-backoff retry before falling back.
func (e *LLMCallException) Retryable() bool {
	switch e.Code {
	case 408, 429, 503, 504:
		return true
	default:
		return false
	}
}

// LLMTokenLimit is raised when a provider call would exceed a configured
// token budget.
type LLMTokenLimit struct {
	TokenCount int
	Limit      int
	Model      string
	ProviderName string
}

func (e *LLMTokenLimit) Error() string {
	return fmt.Sprintf("%s: %s requires %d tokens, limit is %d", e.ProviderName, e.Model, e.TokenCount, e.Limit)
}

// LLMOutOfRetries is raised by the Retry middleware once all attempts are
// exhausted, preserving the final attempt's error as cause.
type LLMOutOfRetries struct {
	Attempts int
	Cause    error
}

func (e *LLMOutOfRetries) Error() string {
	return fmt.Sprintf("out of retries after %d attempts: %v", e.Attempts, e.Cause)
}
func (e *LLMOutOfRetries) Unwrap() error { return e.Cause }

// Package filter implements the Filter component: selects the final
// subset of scored messages an iteration returns, either by threshold
// and top-k (Basic) or by consulting an LLM against a list of criteria
// (LLM-backed).
package filter

import (
	"context"
	"fmt"
	"sort"

	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/llm"
	"github.com/chain-ml/council-sub000/internal/council/llm/parser"
	"github.com/chain-ml/council-sub000/internal/council/messages"
)

// Filter selects the final subset of scored messages for this iteration.
type Filter interface {
	Execute(ctx *contexts.ChainContext, scored []messages.ScoredChatMessage) ([]messages.ScoredChatMessage, error)
}

// Basic keeps messages scoring at least Threshold, sorts them descending
// by score, and truncates to TopK (0 means unlimited).
type Basic struct {
	Threshold float64
	TopK      int
}

// NewBasic builds a Basic filter.
func NewBasic(threshold float64, topK int) *Basic {
	return &Basic{Threshold: threshold, TopK: topK}
}

func (f *Basic) Execute(ctx *contexts.ChainContext, scored []messages.ScoredChatMessage) ([]messages.ScoredChatMessage, error) {
	var kept []messages.ScoredChatMessage
	for _, s := range scored {
		if s.Score >= f.Threshold {
			kept = append(kept, s)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	if f.TopK > 0 && len(kept) > f.TopK {
		kept = kept[:f.TopK]
	}
	return kept, nil
}

func verdictSchema() parser.Schema {
	return parser.Schema{Fields: []parser.Field{
		{Name: "candidate", Kind: parser.KindString},
		{Name: "verdict", Kind: parser.KindString, Literal: []string{"select", "reject"}},
	}}
}

// LLM consults an LLM with a list of criteria, expecting one verdict per
// candidate with rigid formatting, retrying on parse/coverage failures.
type LLM struct {
	Fn       *parser.Function
	Criteria []string
}

// NewLLM builds an LLM-backed Filter. systemPrompt should instruct the
// model to verdict every candidate using the verdict schema.
func NewLLM(handler llm.Handler, systemPrompt string, criteria []string, maxRetries int) *LLM {
	p := parser.NewCodeBlocks(verdictSchema(), nil)
	return &LLM{Fn: parser.NewFunction(handler, p, systemPrompt, maxRetries), Criteria: criteria}
}

func (f *LLM) Execute(ctx *contexts.ChainContext, scored []messages.ScoredChatMessage) ([]messages.ScoredChatMessage, error) {
	var kept []messages.ScoredChatMessage
	for _, s := range scored {
		prompt := fmt.Sprintf("Criteria: %v\nCandidate: %s\nShould this candidate be selected?", f.Criteria, s.Message.Content())
		record, err := f.Fn.Execute(context.Background(), prompt)
		if err != nil {
			return nil, err
		}
		if record["verdict"] == "select" {
			kept = append(kept, s)
		}
	}
	return kept, nil
}

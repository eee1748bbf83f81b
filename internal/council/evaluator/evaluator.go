// Package evaluator implements the Evaluator component: scores each
// chain's candidate answer, either trivially (Basic) or via a grader LLM
// with a strict output grammar and self-correcting retries (LLM-backed).
package evaluator

import (
	"context"
	"fmt"

	"github.com/chain-ml/council-sub000/internal/council/budget"
	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/llm"
	"github.com/chain-ml/council-sub000/internal/council/llm/parser"
	"github.com/chain-ml/council-sub000/internal/council/messages"
)

// Evaluator scores the candidate answers visible in ctx and returns them
// ranked by score.
type Evaluator interface {
	Execute(ctx *contexts.ChainContext, b *budget.Budget, chainNames []string, agentCtx *contexts.AgentContext) ([]messages.ScoredChatMessage, error)
}

// Basic scores the last message of each chain's last ChainHistory: 1.0
// if it's not an error message, 0.0 if it is, and skips chains that
// haven't produced anything yet.
type Basic struct{}

func NewBasic() *Basic { return &Basic{} }

func (e *Basic) Execute(ctx *contexts.ChainContext, b *budget.Budget, chainNames []string, agentCtx *contexts.AgentContext) ([]messages.ScoredChatMessage, error) {
	var scored []messages.ScoredChatMessage
	for _, name := range chainNames {
		history, ok := agentCtx.LastChainHistoryIteration(name)
		if !ok {
			continue
		}
		last, ok := history.LastMessage()
		if !ok {
			continue
		}
		score := 1.0
		if last.IsError() {
			score = 0.0
		}
		scored = append(scored, messages.ScoredChatMessage{Message: last, Score: score})
	}
	return scored, nil
}

// gradeSchema is the strict output grammar an LLM-backed Evaluator uses
// to grade one candidate: {name, score in [0,10], justification}.
func gradeSchema() parser.Schema {
	return parser.Schema{Fields: []parser.Field{
		{Name: "name", Kind: parser.KindString},
		{Name: "score", Kind: parser.KindFloat},
		{Name: "justification", Kind: parser.KindString},
	}}
}

func gradeValidator(record parser.Record) error {
	score, ok := record["score"].(float64)
	if !ok {
		return fmt.Errorf("score must be a number")
	}
	if score < 0 || score > 10 {
		return fmt.Errorf("score %.2f out of range [0, 10]", score)
	}
	return nil
}

// LLM submits the user query plus every candidate chain answer to a
// grader LLM, one Function call per candidate, each retrying on
// parse/semantic failure.
type LLM struct {
	Fn         *parser.Function
	MaxRetries int
}

// NewLLM builds an LLM-backed Evaluator. systemPrompt should instruct the
// grader to output the grade schema as a CodeBlocks response.
func NewLLM(handler llm.Handler, systemPrompt string, maxRetries int) *LLM {
	p := parser.NewCodeBlocks(gradeSchema(), gradeValidator)
	return &LLM{Fn: parser.NewFunction(handler, p, systemPrompt, maxRetries), MaxRetries: maxRetries}
}

func (e *LLM) Execute(ctx *contexts.ChainContext, b *budget.Budget, chainNames []string, agentCtx *contexts.AgentContext) ([]messages.ScoredChatMessage, error) {
	lastUser, _ := ctx.LastUserMessage()

	var scored []messages.ScoredChatMessage
	for _, name := range chainNames {
		history, ok := agentCtx.LastChainHistoryIteration(name)
		if !ok {
			continue
		}
		last, ok := history.LastMessage()
		if !ok {
			continue
		}

		prompt := fmt.Sprintf("User query: %s\nCandidate %q answer: %s\nGrade this answer from 0 to 10.", lastUser.Content(), name, last.Content())
		record, err := e.Fn.Execute(context.Background(), prompt)
		if err != nil {
			return nil, err
		}
		score, _ := record["score"].(float64)
		scored = append(scored, messages.ScoredChatMessage{Message: last, Score: score})
	}
	return scored, nil
}

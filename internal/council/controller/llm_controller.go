package controller

import (
	"context"
	"fmt"
	"sort"

	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/llm"
	"github.com/chain-ml/council-sub000/internal/council/llm/parser"
	"github.com/chain-ml/council-sub000/internal/council/messages"
)

func planSchema() parser.Schema {
	return parser.Schema{Fields: []parser.Field{
		{Name: "name", Kind: parser.KindString},
		{Name: "score", Kind: parser.KindFloat},
		{Name: "instructions", Kind: parser.KindString},
		{Name: "justification", Kind: parser.KindString},
	}}
}

// LLM asks a grader LLM to score each registered chain against the last
// user message, discards scores below Threshold, sorts descending, and
// truncates to TopK. Chains in SeedInitialState receive their graded
// instructions as the ExecutionUnit's initial seed message.
type LLM struct {
	Fn               *parser.Function
	Threshold        float64
	TopK             int
	Mode             ExecutionMode
	SeedInitialState map[string]bool
}

// NewLLM builds an LLM-backed Controller. systemPrompt should instruct
// the model to emit one plan-schema CodeBlocks response per chain.
func NewLLM(handler llm.Handler, systemPrompt string, threshold float64, topK int, mode ExecutionMode, maxRetries int) *LLM {
	p := parser.NewCodeBlocks(planSchema(), nil)
	return &LLM{
		Fn:               parser.NewFunction(handler, p, systemPrompt, maxRetries),
		Threshold:        threshold,
		TopK:             topK,
		Mode:             mode,
		SeedInitialState: map[string]bool{},
	}
}

type scoredChain struct {
	chain        Chain
	score        float64
	instructions string
}

func (c *LLM) Execute(ctx *contexts.ChainContext, chains []Chain) ([]ExecutionUnit, error) {
	lastUser, _ := ctx.LastUserMessage()

	var candidates []scoredChain
	for _, ch := range chains {
		prompt := fmt.Sprintf("User query: %s\nCandidate chain %q: %s\nScore its relevance from 0 to 10.", lastUser.Content(), ch.Name, ch.Description)
		record, err := c.Fn.Execute(context.Background(), prompt)
		if err != nil {
			return nil, err
		}
		score, _ := record["score"].(float64)
		if score < c.Threshold {
			continue
		}
		instructions, _ := record["instructions"].(string)
		candidates = append(candidates, scoredChain{chain: ch, score: score, instructions: instructions})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if c.TopK > 0 && len(candidates) > c.TopK {
		candidates = candidates[:c.TopK]
	}

	rank := -1
	if c.Mode == Parallel {
		rank = 1
	}
	units := make([]ExecutionUnit, 0, len(candidates))
	for _, sc := range candidates {
		unit := ExecutionUnit{ChainName: sc.chain.Name, Budget: ctx.Budget(), Rank: rank}
		if c.SeedInitialState[sc.chain.Name] {
			msg := messages.NewAgentMessage(sc.instructions, nil)
			unit.InitialState = &msg
		}
		units = append(units, unit)
	}
	return units, nil
}

package parser

import (
	"context"
	"fmt"

	"github.com/chain-ml/council-sub000/internal/council/llm"
)

// Parser is implemented by CodeBlocks, YAML/YAMLBlock, and JSON/JSONBlock:
// turn raw LLM response text into a schema-validated Record.
type Parser interface {
	Parse(response string) (Record, error)
}

// FunctionOutOfRetry is raised once an LLMFunction exhausts maxRetries+1
// attempts without producing a parseable response, carrying every
// attempt's failure for diagnosis.
type FunctionOutOfRetry struct {
	Attempts int
	Errors   []error
}

func (e *FunctionOutOfRetry) Error() string {
	return fmt.Sprintf("out of retries after %d attempts, last error: %v", e.Attempts, e.Errors[len(e.Errors)-1])
}

// Function wraps an LLM handler with a parser and a self-correcting
// retry loop: compose system/user/extra messages, send through the
// middleware chain, run the parser, and on any parser error (a
// ParsingException or a Validator's error) append an
// {assistant: last_response, user: "Fix: <error>"} correction turn and
// retry, up to maxRetries+1 total attempts. An error from the handler
// itself is returned at once without a retry.
type Function struct {
	Handler       llm.Handler
	Parser        Parser
	SystemMessage string
	MaxRetries    int
}

// NewFunction builds an LLMFunction.
func NewFunction(handler llm.Handler, parser Parser, systemMessage string, maxRetries int) *Function {
	return &Function{Handler: handler, Parser: parser, SystemMessage: systemMessage, MaxRetries: maxRetries}
}

// Execute runs the self-correction loop for the given user message (and
// any extra messages appended after it, e.g. few-shot examples).
func (f *Function) Execute(ctx context.Context, userMessage string, extra ...llm.LLMMessage) (Record, error) {
	msgs := []llm.LLMMessage{llm.NewSystemMessage(f.SystemMessage)}
	if userMessage != "" {
		msgs = append(msgs, llm.NewUserMessage(userMessage))
	}
	msgs = append(msgs, extra...)

	var errorsSeen []error
	for attempt := 1; ; attempt++ {
		res, err := f.Handler(ctx, llm.Request{Messages: msgs})
		if err != nil {
			return nil, err
		}

		response := res.FirstChoice()
		record, perr := f.Parser.Parse(response)
		if perr == nil {
			return record, nil
		}

		errorsSeen = append(errorsSeen, perr)
		if attempt >= f.MaxRetries+1 {
			return nil, &FunctionOutOfRetry{Attempts: attempt, Errors: errorsSeen}
		}

		msgs = append(msgs, llm.NewAssistantMessage(response), llm.NewUserMessage("Fix: "+perr.Error()))
	}
}

// Command council-demo wires a minimal runnable council engine: one
// chain backed by a single skill that calls a fake in-memory LLM
// provider, run through the full Controller/Evaluator/Filter agent loop.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/chain-ml/council-sub000/internal/council/agent"
	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/controller"
	"github.com/chain-ml/council-sub000/internal/council/engineconfig"
	"github.com/chain-ml/council-sub000/internal/council/evaluator"
	"github.com/chain-ml/council-sub000/internal/council/filter"
	"github.com/chain-ml/council-sub000/internal/council/llm"
	"github.com/chain-ml/council-sub000/internal/council/messages"
	"github.com/chain-ml/council-sub000/internal/council/monitor"
	"github.com/chain-ml/council-sub000/internal/council/runners"
	"github.com/chain-ml/council-sub000/internal/council/skill"
)

// echoProvider is a fake in-memory LLM provider: it echoes the last user
// message back with a fixed prefix and reports a trivial consumption
// set, standing in for a real HTTP-backed provider.
type echoProvider struct {
	name   string
	prefix string
}

func (p *echoProvider) Configuration() map[string]any {
	return map[string]any{"provider": p.name}
}

func (p *echoProvider) PostChatRequest(ctx context.Context, req llm.Request) (llm.LLMResult, error) {
	last := ""
	for _, m := range req.Messages {
		if m.Role == llm.User {
			last = m.Content
		}
	}
	return llm.LLMResult{
		Choices: []string{fmt.Sprintf("%s%s", p.prefix, last)},
	}, nil
}

func main() {
	cfg, err := engineconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "council-demo: loading config: %v\n", err)
		os.Exit(1)
	}

	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
		Level(logLevel).
		With().Timestamp().Logger()

	shutdownTelemetry, err := setupTelemetry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "council-demo: setting up telemetry: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Warn().Err(err).Msg("telemetry shutdown failed")
		}
	}()

	provider := &echoProvider{name: "demo-echo", prefix: "council says: "}
	handler := llm.Chain(provider,
		llm.Logging(log, llm.LoggingOptions{Verbosity: llm.Minimal}),
		llm.Retry(3, 50*time.Millisecond, llm.RetryableStatus),
	)

	respond := skill.New("respond", func(ctx *contexts.SkillContext) (messages.ChatMessage, error) {
		userMsg, ok := ctx.LastUserMessage()
		if !ok {
			return messages.ChatMessage{}, fmt.Errorf("respond: no user message in context")
		}
		result, err := handler(context.Background(), llm.Request{
			Messages: []llm.LLMMessage{llm.NewUserMessage(userMsg.Content())},
		})
		if err != nil {
			return messages.ChatMessage{}, err
		}
		return messages.NewSkillMessage(result.FirstChoice(), result.Consumptions, "respond", false), nil
	})

	m := monitor.Root("council-demo", "Agent", log)
	chains := []controller.Chain{
		{Name: "echo-chain", Runner: runners.FromList(respond), Description: "Echoes the user's message back through the LLM provider."},
	}

	a := agent.New(
		controller.NewBasic(controller.Parallel),
		chains,
		evaluator.NewBasic(),
		filter.NewBasic(0, 1),
		m,
	)

	chatHistory := messages.FromUserMessage("hello, council")
	agentCtx := contexts.NewAgentContext(chatHistory, cfg.DefaultBudget(), m)

	result, err := a.Execute(agentCtx, cfg.DefaultBudget())
	if err != nil {
		fmt.Fprintf(os.Stderr, "council-demo: agent execution failed: %v\n", err)
		os.Exit(1)
	}

	best, ok := result.Best()
	if !ok {
		fmt.Println("council-demo: no selection produced")
		return
	}
	fmt.Printf("council-demo: %s (score=%.2f)\n", best.Message.Content(), best.Score)
}

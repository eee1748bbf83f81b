package agent

import (
	"fmt"
	"testing"
	"time"

	"github.com/chain-ml/council-sub000/internal/council/budget"
	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/controller"
	"github.com/chain-ml/council-sub000/internal/council/evaluator"
	"github.com/chain-ml/council-sub000/internal/council/filter"
	"github.com/chain-ml/council-sub000/internal/council/messages"
	"github.com/chain-ml/council-sub000/internal/council/monitor"
	"github.com/chain-ml/council-sub000/internal/council/runners"
	"github.com/chain-ml/council-sub000/internal/council/skill"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoSkill(name, reply string) *skill.Skill {
	return skill.New(name, func(ctx *contexts.SkillContext) (messages.ChatMessage, error) {
		return messages.NewSkillMessage(reply, nil, name, false), nil
	})
}

func newAgentTestSetup(chains []controller.Chain) (*Agent, *contexts.AgentContext) {
	m := monitor.Root("agent-test", "Test", zerolog.Nop())
	a := New(controller.NewBasic(controller.Parallel), chains, evaluator.NewBasic(), filter.NewBasic(0, 1), m)
	agentCtx := contexts.NewAgentContext(messages.FromUserMessage("pick the best"), budget.New(time.Second), m)
	return a, agentCtx
}

func TestExecute_SelectsTopScoredChainOnFirstIteration(t *testing.T) {
	chains := []controller.Chain{
		{Name: "weak", Runner: runners.FromList(echoSkill("weak", "weak answer"))},
		{Name: "strong", Runner: runners.FromList(echoSkill("strong", "strong answer"))},
	}
	a, agentCtx := newAgentTestSetup(chains)

	result, err := a.Execute(agentCtx, budget.New(time.Second))
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)

	best, ok := result.Best()
	require.True(t, ok)
	assert.Contains(t, []string{"weak answer", "strong answer"}, best.Message.Content())
	assert.Equal(t, 1, agentCtx.Iteration())
}

func TestExecute_EmptyPlanReturnsEmptyResultImmediately(t *testing.T) {
	a, agentCtx := newAgentTestSetup(nil)

	result, err := a.Execute(agentCtx, budget.New(time.Second))
	require.NoError(t, err)
	assert.Empty(t, result.Messages)
	_, ok := result.Best()
	assert.False(t, ok)
}

func TestExecute_TerminatesWhenBudgetExpiresWithoutSelection(t *testing.T) {
	chains := []controller.Chain{
		{Name: "only", Runner: runners.FromList(echoSkill("only", "never selected"))},
	}
	m := monitor.Root("agent-test", "Test", zerolog.Nop())
	a := New(controller.NewBasic(controller.Parallel), chains, evaluator.NewBasic(), filter.NewBasic(2.0, 0), m)
	agentCtx := contexts.NewAgentContext(messages.FromUserMessage("hi"), budget.New(20*time.Millisecond), m)

	start := time.Now()
	result, err := a.Execute(agentCtx, budget.New(20*time.Millisecond))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Empty(t, result.Messages)
	assert.Less(t, elapsed, 2*time.Second)
	assert.GreaterOrEqual(t, agentCtx.Iteration(), 1)
}

func TestExecute_SurfacesChainRunnerError(t *testing.T) {
	failing := skill.New("boom", func(ctx *contexts.SkillContext) (messages.ChatMessage, error) {
		return messages.ChatMessage{}, fmt.Errorf("deliberate failure")
	})
	chains := []controller.Chain{{Name: "failing", Runner: runners.FromList(failing)}}
	a, agentCtx := newAgentTestSetup(chains)

	_, err := a.Execute(agentCtx, budget.New(time.Second))
	require.Error(t, err)
}

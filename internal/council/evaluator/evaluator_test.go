package evaluator

import (
	"testing"
	"time"

	"github.com/chain-ml/council-sub000/internal/council/budget"
	"github.com/chain-ml/council-sub000/internal/council/contexts"
	"github.com/chain-ml/council-sub000/internal/council/messages"
	"github.com/chain-ml/council-sub000/internal/council/monitor"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasic_ScoresErrorMessagesZero(t *testing.T) {
	b := budget.New(time.Second)
	m := monitor.Root("root", "Test", zerolog.Nop())
	ctx := contexts.NewRootChainContext(nil, b, m)
	agentCtx := contexts.NewAgentContext(messages.FromUserMessage("hi"), b, m)

	okCtx := agentCtx.NewChainContext("ok-chain", b, m)
	okCtx.Current().Append(messages.NewSkillMessage("all good", nil, "s", false))

	failCtx := agentCtx.NewChainContext("fail-chain", b, m)
	failCtx.Current().Append(messages.NewSkillErrorMessage("s", "boom"))

	e := NewBasic()
	scored, err := e.Execute(ctx, b, []string{"ok-chain", "fail-chain", "missing-chain"}, agentCtx)
	require.NoError(t, err)
	require.Len(t, scored, 2)
	assert.Equal(t, 1.0, scored[0].Score)
	assert.Equal(t, 0.0, scored[1].Score)
}

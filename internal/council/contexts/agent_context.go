package contexts

import (
	"sync"

	"github.com/chain-ml/council-sub000/internal/council/budget"
	"github.com/chain-ml/council-sub000/internal/council/messages"
	"github.com/chain-ml/council-sub000/internal/council/monitor"
)

// AgentContext owns the per-agent ChatHistory, the per-chain ChainHistory
// stacks (one new ChainHistory per chain per agent iteration), and the
// per-iteration evaluation buffer the agent loop fills after scoring.
type AgentContext struct {
	mu                sync.Mutex
	chatHistory       *messages.ChatHistory
	chainHistories    map[string][]*messages.ChainHistory
	evaluationHistory [][]messages.ScoredChatMessage
	iteration         int
	root              *ChainContext
}

// NewAgentContext builds an AgentContext around the given chat history and
// the agent's own root budget/monitor, from which the controller and
// evaluator fork their per-iteration contexts.
func NewAgentContext(chatHistory *messages.ChatHistory, b *budget.Budget, m *monitor.Node) *AgentContext {
	return &AgentContext{
		chatHistory:    chatHistory,
		chainHistories: make(map[string][]*messages.ChainHistory),
		root:           NewRootChainContext(chatHistory.Messages(), b, m),
	}
}

func (a *AgentContext) ChatHistory() *messages.ChatHistory { return a.chatHistory }

// NewIteration advances the iteration counter. Called once per pass through
// the agent loop's outer while.
func (a *AgentContext) NewIteration() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.iteration++
	return a.iteration
}

// Iteration returns the current iteration count (0 before the first call to
// NewIteration).
func (a *AgentContext) Iteration() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.iteration
}

// ForkForController returns a fresh ChainContext for the controller's plan
// step, seeded with everything in the chat history so far.
func (a *AgentContext) ForkForController(childMonitor *monitor.Node) *ChainContext {
	return a.root.ForkFor(childMonitor, nil)
}

// ForkForEvaluator returns a fresh ChainContext for the evaluator's scoring
// step, bounded by the overall agent budget passed to execute().
func (a *AgentContext) ForkForEvaluator(childMonitor *monitor.Node, b *budget.Budget) *ChainContext {
	return a.root.ForkFor(childMonitor, b)
}

// NewChainContext creates a new ChainHistory for chain name, pushes it onto
// that chain's history stack, and returns a ChainContext rooted at the
// agent's chat history with that fresh ChainHistory as its current scope.
func (a *AgentContext) NewChainContext(name string, b *budget.Budget, m *monitor.Node) *ChainContext {
	a.mu.Lock()
	history := messages.NewChainHistory()
	a.chainHistories[name] = append(a.chainHistories[name], history)
	a.mu.Unlock()

	return &ChainContext{
		previousMessages: a.chatHistory.Messages(),
		current:          history,
		cancellation:     NewCancellationToken(),
		budget:           b,
		monitor:          m,
	}
}

// SetEvaluation records the scored messages produced for the current
// iteration.
func (a *AgentContext) SetEvaluation(scored []messages.ScoredChatMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.evaluationHistory = append(a.evaluationHistory, scored)
}

// LastEvaluatorIteration returns the most recently recorded scored-message
// set, if any.
func (a *AgentContext) LastEvaluatorIteration() ([]messages.ScoredChatMessage, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.evaluationHistory) == 0 {
		return nil, false
	}
	return a.evaluationHistory[len(a.evaluationHistory)-1], true
}

// LastChainHistoryIteration returns the most recent ChainHistory recorded
// for chain name, if the chain has run at least once.
func (a *AgentContext) LastChainHistoryIteration(name string) (*messages.ChainHistory, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	iterations := a.chainHistories[name]
	if len(iterations) == 0 {
		return nil, false
	}
	return iterations[len(iterations)-1], true
}

package contexts

import (
	"github.com/chain-ml/council-sub000/internal/council/budget"
	"github.com/chain-ml/council-sub000/internal/council/messages"
	"github.com/chain-ml/council-sub000/internal/council/monitor"
)

// ChainContext is the view a runner executes against: a frozen snapshot of
// everything visible before this scope started (previousMessages) plus the
// messages this scope itself has produced so far (current). ForkFor/Merge
// is the only path through which a child's messages become visible to its
// parent, which is what lets Parallel and ParallelFor run children
// concurrently without locking a shared history.
type ChainContext struct {
	previousMessages []messages.ChatMessage
	current          *messages.ChainHistory
	cancellation     *CancellationToken
	budget           *budget.Budget
	monitor          *monitor.Node
}

// NewRootChainContext builds a ChainContext whose previousMessages are the
// given messages, with an empty current history, a fresh cancellation
// token, and the given budget and monitor node. AgentContext uses it for
// its root context; ForkFor and AgentContext.NewChainContext build their
// contexts directly.
func NewRootChainContext(previous []messages.ChatMessage, b *budget.Budget, m *monitor.Node) *ChainContext {
	return &ChainContext{
		previousMessages: previous,
		current:          messages.NewChainHistory(),
		cancellation:      NewCancellationToken(),
		budget:           b,
		monitor:          m,
	}
}

// Messages returns previousMessages followed by current's messages, the
// full set of messages visible to this context right now.
func (c *ChainContext) Messages() []messages.ChatMessage {
	cur := c.current.Messages()
	out := make([]messages.ChatMessage, 0, len(c.previousMessages)+len(cur))
	out = append(out, c.previousMessages...)
	out = append(out, cur...)
	return out
}

func (c *ChainContext) LastMessage() (messages.ChatMessage, bool) {
	return lastMatching(c.Messages(), func(messages.ChatMessage) bool { return true })
}

func (c *ChainContext) LastUserMessage() (messages.ChatMessage, bool) {
	return lastMatching(c.Messages(), func(m messages.ChatMessage) bool { return m.IsOfKind(messages.User) })
}

func (c *ChainContext) LastAgentMessage() (messages.ChatMessage, bool) {
	return lastMatching(c.Messages(), func(m messages.ChatMessage) bool { return m.IsOfKind(messages.Agent) })
}

func (c *ChainContext) LastMessageFromSource(name string) (messages.ChatMessage, bool) {
	return lastMatching(c.Messages(), func(m messages.ChatMessage) bool { return m.IsFromSkill(name) })
}

// Current returns the ChainHistory this context's own scope is writing to.
func (c *ChainContext) Current() *messages.ChainHistory { return c.current }

func (c *ChainContext) CancellationToken() *CancellationToken { return c.cancellation }
func (c *ChainContext) Budget() *budget.Budget                { return c.budget }
func (c *ChainContext) Monitor() *monitor.Node                { return c.monitor }

// ShouldStop is true once the budget has expired or cancellation has fired.
func (c *ChainContext) ShouldStop() bool {
	return c.budget.IsExpired() || c.cancellation.Cancelled()
}

// ForkFor returns a new ChainContext for a child scope: its previousMessages
// snapshot is everything visible in c right now, its current starts empty,
// and it shares c's cancellation token by reference. If overrideBudget is
// non-nil it is used in place of c's own budget (e.g. an ExecutionUnit's
// per-chain budget); otherwise the parent's budget is shared by reference.
func (c *ChainContext) ForkFor(childMonitor *monitor.Node, overrideBudget *budget.Budget) *ChainContext {
	b := c.budget
	if overrideBudget != nil {
		b = overrideBudget
	}
	return &ChainContext{
		previousMessages: c.Messages(),
		current:          messages.NewChainHistory(),
		cancellation:     c.cancellation,
		budget:           b,
		monitor:          childMonitor,
	}
}

// Merge appends each child's current messages, in the order given, onto
// c's own current history. This is the single-threaded join point after a
// Sequential step or a Parallel/ParallelFor batch settles.
func (c *ChainContext) Merge(children ...*ChainContext) {
	for _, child := range children {
		for _, m := range child.current.Messages() {
			c.current.Append(m)
		}
	}
}

func lastMatching(msgs []messages.ChatMessage, pred func(messages.ChatMessage) bool) (messages.ChatMessage, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if pred(msgs[i]) {
			return msgs[i], true
		}
	}
	return messages.ChatMessage{}, false
}

// Package contexts implements the hierarchical execution context: the
// CancellationToken, ChainContext fork/merge discipline, SkillContext,
// and AgentContext threaded through the runner tree.
package contexts

import "sync"

// CancellationToken is a single boolean behind a mutex, shared by reference
// across a ChainContext subtree. The only legal transition is false to
// true; once Cancel is called, Cancelled always reports true afterwards.
type CancellationToken struct {
	mu        sync.Mutex
	cancelled bool
}

// NewCancellationToken returns a token in the not-cancelled state.
func NewCancellationToken() *CancellationToken {
	return &CancellationToken{}
}

// Cancel sets the token. Idempotent.
func (t *CancellationToken) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
}

// Cancelled reports whether Cancel has been called.
func (t *CancellationToken) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

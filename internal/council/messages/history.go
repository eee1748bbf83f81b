package messages

import "sync"

// ChatHistory is the ordered, append-only sequence of ChatMessages produced
// by user/agent turns. Reads and writes are guarded by its own lock, so it
// is safe for concurrent use.
type ChatHistory struct {
	mu       sync.RWMutex
	messages []ChatMessage
}

// NewChatHistory returns an empty ChatHistory.
func NewChatHistory() *ChatHistory { return &ChatHistory{} }

// FromUserMessage returns a ChatHistory seeded with one User message.
func FromUserMessage(content string) *ChatHistory {
	h := NewChatHistory()
	h.AddUserMessage(content)
	return h
}

func (h *ChatHistory) AddUserMessage(content string) {
	h.append(NewUserMessage(content))
}

func (h *ChatHistory) AddAgentMessage(content string, data any) {
	h.append(NewAgentMessage(content, data))
}

func (h *ChatHistory) append(m ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, m)
}

func (h *ChatHistory) Messages() []ChatMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]ChatMessage, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *ChatHistory) LastMessage() (ChatMessage, bool) {
	msgs := h.Messages()
	if len(msgs) == 0 {
		return ChatMessage{}, false
	}
	return msgs[len(msgs)-1], true
}

func (h *ChatHistory) LastUserMessage() (ChatMessage, bool) {
	return lastMatching(h.Messages(), func(m ChatMessage) bool { return m.IsOfKind(User) })
}

func (h *ChatHistory) LastAgentMessage() (ChatMessage, bool) {
	return lastMatching(h.Messages(), func(m ChatMessage) bool { return m.IsOfKind(Agent) })
}

func (h *ChatHistory) LastMessageFromSource(name string) (ChatMessage, bool) {
	return lastMatching(h.Messages(), func(m ChatMessage) bool { return m.IsFromSkill(name) })
}

// ChainHistory is the ordered, append-only sequence of messages produced
// during one chain execution within one agent iteration.
type ChainHistory struct {
	mu       sync.RWMutex
	messages []ChatMessage
}

func NewChainHistory() *ChainHistory { return &ChainHistory{} }

// Append adds a message produced during this chain's execution. Only
// Skill-kind messages are expected here, but this is not enforced — the
// runner tree is responsible for only appending Skill messages.
func (h *ChainHistory) Append(m ChatMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, m)
}

func (h *ChainHistory) Messages() []ChatMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]ChatMessage, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *ChainHistory) LastMessage() (ChatMessage, bool) {
	msgs := h.Messages()
	if len(msgs) == 0 {
		return ChatMessage{}, false
	}
	return msgs[len(msgs)-1], true
}

func (h *ChainHistory) LastUserMessage() (ChatMessage, bool) {
	return lastMatching(h.Messages(), func(m ChatMessage) bool { return m.IsOfKind(User) })
}

func (h *ChainHistory) LastAgentMessage() (ChatMessage, bool) {
	return lastMatching(h.Messages(), func(m ChatMessage) bool { return m.IsOfKind(Agent) })
}

func (h *ChainHistory) LastMessageFromSource(name string) (ChatMessage, bool) {
	return lastMatching(h.Messages(), func(m ChatMessage) bool { return m.IsFromSkill(name) })
}

// Package messages implements the immutable ChatMessage record and the
// append-only ChatHistory/ChainHistory collections that carry
// conversation state through the engine.
package messages

import "reflect"

// Kind partitions the message universe.
type Kind int

const (
	// User is a message originating from the end user.
	User Kind = iota
	// Agent is a message produced by the agent as its final answer for an
	// iteration.
	Agent
	// Skill is a message produced by a leaf runner.
	Skill
)

func (k Kind) String() string {
	switch k {
	case User:
		return "User"
	case Agent:
		return "Agent"
	case Skill:
		return "Skill"
	default:
		return "Unknown"
	}
}

// ChatMessage is an immutable record of one turn in a conversation.
// Equality is structural: two messages with the same fields are equal.
type ChatMessage struct {
	kind    Kind
	content string
	data    any
	source  string
	isError bool
}

// NewUserMessage creates a User-kind message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{kind: User, content: content}
}

// NewAgentMessage creates an Agent-kind message, optionally carrying data.
func NewAgentMessage(content string, data any) ChatMessage {
	return ChatMessage{kind: Agent, content: content, data: data}
}

// NewSkillMessage creates a Skill-kind message attributed to source.
func NewSkillMessage(content string, data any, source string, isError bool) ChatMessage {
	return ChatMessage{kind: Skill, content: content, data: data, source: source, isError: isError}
}

// NewSkillErrorMessage is a convenience factory for the error message a
// runner appends on a skill's behalf when it raises.
func NewSkillErrorMessage(source, content string) ChatMessage {
	return ChatMessage{kind: Skill, content: content, source: source, isError: true}
}

func (m ChatMessage) Kind() Kind       { return m.kind }
func (m ChatMessage) Content() string  { return m.content }
func (m ChatMessage) Data() any        { return m.data }
func (m ChatMessage) Source() string   { return m.source }
func (m ChatMessage) IsError() bool    { return m.isError }
func (m ChatMessage) IsOfKind(k Kind) bool { return m.kind == k }

// IsFromSkill reports whether this is a Skill message produced by name.
func (m ChatMessage) IsFromSkill(name string) bool {
	return m.kind == Skill && m.source == name
}

// Equal reports structural equality. data is compared with
// reflect.DeepEqual, so maps, slices and pointers are compared by the
// values they hold rather than by identity.
func (m ChatMessage) Equal(other ChatMessage) bool {
	return m.kind == other.kind &&
		m.content == other.content &&
		m.source == other.source &&
		m.isError == other.isError &&
		reflect.DeepEqual(m.data, other.data)
}

// Collection is the read-side contract shared by ChatHistory, ChainHistory,
// and the composite ChainContext view over both.
type Collection interface {
	Messages() []ChatMessage
	LastMessage() (ChatMessage, bool)
	LastUserMessage() (ChatMessage, bool)
	LastAgentMessage() (ChatMessage, bool)
	LastMessageFromSource(name string) (ChatMessage, bool)
}

func lastMatching(msgs []ChatMessage, pred func(ChatMessage) bool) (ChatMessage, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if pred(msgs[i]) {
			return msgs[i], true
		}
	}
	return ChatMessage{}, false
}

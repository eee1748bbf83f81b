package messages

// ScoredChatMessage pairs a message with the score an Evaluator assigned it.
type ScoredChatMessage struct {
	Message ChatMessage
	Score   float64
}

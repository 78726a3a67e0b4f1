package domain

// Exchange is one completed user/assistant turn.
type Exchange struct {
	UserMessage      string
	AssistantMessage string
}

// Answer is the result of one assistant query.
type Answer struct {
	// Text is the final model answer.
	Text string

	// Sources are the deduplicated citations gathered from tool calls
	// made while producing Text. Empty when the model answered from
	// general knowledge.
	Sources []SourceRef

	// SessionID identifies the conversation the exchange was recorded
	// under. Always set; a session is created when none was supplied.
	SessionID string
}

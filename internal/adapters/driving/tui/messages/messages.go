// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/courseqa/internal/core/domain"
)

// QuerySubmitted is sent when the user sends a question.
type QuerySubmitted struct {
	Query string
}

// AnswerReceived carries the assistant's answer back to the model.
type AnswerReceived struct {
	Answer *domain.Answer
	Err    error
}

// IndexStatusLoaded carries the number of indexed courses for the
// status bar.
type IndexStatusLoaded struct {
	Courses int
	Err     error
}

// SessionCleared signals that a new conversation was started.
type SessionCleared struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

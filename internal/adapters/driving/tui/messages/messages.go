// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

// QuestionSubmitted is sent when the user presses enter on a question.
type QuestionSubmitted struct {
	Question string
}

// AnswerReceived carries a routed answer back to the model.
// Seq identifies the question it answers.
type AnswerReceived struct {
	Seq    int
	Answer domain.RoutedAnswer
	Err    error
}

// ErrorOccurred is sent when an error needs to be displayed.
type ErrorOccurred struct {
	Err error
}

// TranscriptCleared is sent when the conversation is reset.
type TranscriptCleared struct{}

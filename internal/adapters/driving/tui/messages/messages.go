// Package messages defines Bubbletea message types for the chat TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"time"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// QuestionAsked is sent when the user submits a question.
type QuestionAsked struct {
	Question string
}

// AnswerReceived carries the answer, or the error, for a question.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error

	// Elapsed is the time from submit to reply.
	Elapsed time.Duration
}

// IndexStatusUpdated carries a snapshot of the index for the status bar.
type IndexStatusUpdated struct {
	Info  domain.IndexInfo
	Build domain.BuildStatus
}

// ErrorOccurred signals that an error happened outside a question.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

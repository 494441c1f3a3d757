// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// AnswerReceived carries a synthesized answer back to the model.
type AnswerReceived struct {
	Answer domain.Answer
	Err    error
}

// CorpusLoaded carries the indexed document count shown in the header.
type CorpusLoaded struct {
	Documents int
	Err       error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

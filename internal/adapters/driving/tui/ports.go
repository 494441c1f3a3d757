// Package tui provides an interactive ask-and-read terminal interface
// for src-to-kb. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/vezlo/src-to-kb/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Answer synthesizes answers to questions. Required.
	Answer driving.AnswerService

	// Documents exposes the indexed corpus. Optional, used for the
	// document count in the header.
	Documents driving.DocumentService
}

package mcp

import (
	"github.com/vezlo/src-to-kb/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query provides keyword search over the corpus.
	Query driving.QueryService

	// Answer synthesizes answers to questions.
	Answer driving.AnswerService

	// Documents exposes indexed documents as resources.
	Documents driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	// Documents is optional, resources degrade to empty lists
	return nil
}

package mcp

import (
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers similarity queries.
	Retrieval driving.RetrievalService

	// Answer generates grounded answers. Optional: ask_reviews is not
	// registered without it.
	Answer driving.AnswerService

	// Index reports index state. Optional.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}

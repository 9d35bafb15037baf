// Package tui provides an interactive terminal chat over the review index.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers similarity queries.
	Retrieval driving.RetrievalService

	// Answer generates grounded replies. Optional: without it the chat
	// shows the closest reviews.
	Answer driving.AnswerService

	// Index reports index state for the status bar. Optional.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}

package driving

import (
	"context"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// RetrievalService answers top-k similarity queries against the index.
type RetrievalService interface {
	// Query returns up to k documents most similar to text, closest first.
	Query(ctx context.Context, text string, k int) ([]domain.ScoredDocument, error)

	// DefaultK returns the configured top-k.
	DefaultK() int
}

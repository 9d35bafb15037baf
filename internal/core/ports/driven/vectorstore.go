package driven

import (
	"context"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// VectorStore creates and opens the persisted vector index at a configured path.
type VectorStore interface {
	// Create starts a new index containing docs.
	// When recreate is true, any index already at the path is removed first.
	// When recreate is false and an index exists, returns domain.ErrIndexExists.
	Create(ctx context.Context, docs []domain.EmbeddedDocument, recreate bool) (VectorIndex, error)

	// Open loads a previously persisted index.
	// Returns (nil, nil) when nothing is persisted at the path.
	Open(ctx context.Context) (VectorIndex, error)

	// Path returns the persist location.
	Path() string
}

// VectorIndex is an open index of embedded documents.
type VectorIndex interface {
	// Append adds docs to the index.
	Append(ctx context.Context, docs []domain.EmbeddedDocument) error

	// Persist flushes the index to durable storage.
	Persist(ctx context.Context) error

	// Search returns up to k documents most similar to query, closest first.
	// An empty index returns an empty result, not an error.
	Search(ctx context.Context, query []float32, k int) ([]domain.ScoredDocument, error)

	// Count returns the number of documents in the index.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

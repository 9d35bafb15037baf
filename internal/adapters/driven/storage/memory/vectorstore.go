package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
)

// Ensure VectorStore and Index implement the interfaces.
var (
	_ driven.VectorStore = (*VectorStore)(nil)
	_ driven.VectorIndex = (*Index)(nil)
)

// VectorStore keeps one index in process memory.
// Persist marks it complete; nothing outlives the process.
type VectorStore struct {
	mu      sync.Mutex
	current *Index
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// Create starts a new index holding docs.
func (s *VectorStore) Create(_ context.Context, docs []domain.EmbeddedDocument, recreate bool) (driven.VectorIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && !recreate {
		return nil, domain.ErrIndexExists
	}

	s.current = &Index{docs: slices.Clone(docs)}
	return s.current, nil
}

// Open returns the persisted index, or nil if none was persisted.
func (s *VectorStore) Open(_ context.Context) (driven.VectorIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || !s.current.isPersisted() {
		return nil, nil
	}
	return s.current, nil
}

// Path returns a marker for the in-memory location.
func (s *VectorStore) Path() string {
	return ":memory:"
}

// Index is a brute-force cosine index over a slice of documents.
// It is safe for concurrent use.
type Index struct {
	mu        sync.RWMutex
	docs      []domain.EmbeddedDocument
	persisted bool
}

// Append adds docs to the index.
func (i *Index) Append(_ context.Context, docs []domain.EmbeddedDocument) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.docs = append(i.docs, docs...)
	return nil
}

// Persist marks the index complete.
func (i *Index) Persist(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.persisted = true
	return nil
}

func (i *Index) isPersisted() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.persisted
}

// Search scores every document against query and returns the top k.
func (i *Index) Search(_ context.Context, query []float32, k int) ([]domain.ScoredDocument, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.docs) == 0 || k <= 0 {
		return []domain.ScoredDocument{}, nil
	}

	results := make([]domain.ScoredDocument, 0, len(i.docs))
	for _, doc := range i.docs {
		results = append(results, domain.ScoredDocument{
			Document:   doc,
			Similarity: domain.CosineSimilarity(query, doc.Embedding),
		})
	}
	return domain.RankTopK(results, k), nil
}

// Count returns the number of documents.
func (i *Index) Count(_ context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.docs), nil
}

// Close is a no-op; the store keeps the documents for later Open calls.
func (i *Index) Close() error {
	return nil
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driving"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService runs top-k similarity search over the shared index.
// It is read-only and safe for concurrent callers.
type RetrievalService struct {
	embedder driven.EmbeddingService
	handle   *IndexHandle
	defaultK int
}

// NewRetrievalService creates a retrieval service.
// defaultK is used when callers pass k <= 0 through DefaultK.
func NewRetrievalService(embedder driven.EmbeddingService, handle *IndexHandle, defaultK int) *RetrievalService {
	if defaultK < 1 {
		defaultK = domain.DefaultTopKRetrieval
	}
	return &RetrievalService{
		embedder: embedder,
		handle:   handle,
		defaultK: defaultK,
	}
}

// DefaultK returns the configured top-k.
func (s *RetrievalService) DefaultK() int {
	return s.defaultK
}

// Query embeds text and returns up to k documents, closest first.
// Fewer than k documents are returned when the index holds fewer.
func (s *RetrievalService) Query(ctx context.Context, text string, k int) ([]domain.ScoredDocument, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1, got %d", domain.ErrInvalidInput, k)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: query text is empty", domain.ErrInvalidInput)
	}
	if err := s.handle.Available(); err != nil {
		return nil, err
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: embedding service not configured", domain.ErrEmbeddingGateway)
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingGateway, err)
	}

	results, err := s.handle.Search(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	return domain.RankTopK(results, k), nil
}

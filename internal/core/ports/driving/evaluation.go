package driving

import (
	"context"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// EvaluationService scores retrieval quality with keyword hit rates.
type EvaluationService interface {
	// Evaluate runs every sample at k and scores it.
	Evaluate(ctx context.Context, samples []domain.EvaluationSample, k int) (*domain.EvaluationReport, error)

	// Sweep runs Evaluate at each k and returns the mean hit rate per k.
	Sweep(ctx context.Context, samples []domain.EvaluationSample, ks []int) ([]domain.SweepPoint, error)
}

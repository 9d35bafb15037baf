package services

import (
	"context"
	"fmt"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driving"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/logger"
)

// Ensure EvaluationService implements the interface.
var _ driving.EvaluationService = (*EvaluationService)(nil)

// EvaluationService scores retrieval with keyword hit rates.
// It only reads from the index.
type EvaluationService struct {
	retrieval driving.RetrievalService
}

// NewEvaluationService creates an evaluation service.
func NewEvaluationService(retrieval driving.RetrievalService) *EvaluationService {
	return &EvaluationService{retrieval: retrieval}
}

// Evaluate queries each sample at k and scores the retrieved text.
func (s *EvaluationService) Evaluate(ctx context.Context, samples []domain.EvaluationSample, k int) (*domain.EvaluationReport, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no evaluation samples", domain.ErrEmptyInput)
	}

	report := &domain.EvaluationReport{
		K:       k,
		Results: make([]domain.EvaluationResult, 0, len(samples)),
	}
	rates := make([]float64, 0, len(samples))

	for i, sample := range samples {
		docs, err := s.retrieval.Query(ctx, sample.Question, k)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i+1, err)
		}

		texts := make([]string, len(docs))
		for j, d := range docs {
			texts[j] = d.Document.Text
		}

		rate := domain.KeywordHitRate(texts, sample.ExpectedKeywords)
		logger.Debug("Sample %d: hit rate %.2f over %d documents", i+1, rate, len(docs))

		report.Results = append(report.Results, domain.EvaluationResult{
			Question:           sample.Question,
			Keywords:           sample.ExpectedKeywords,
			HitRate:            rate,
			DocumentsRetrieved: len(docs),
		})
		rates = append(rates, rate)
	}

	report.Summary = domain.Summarise(rates)
	return report, nil
}

// Sweep evaluates at each k and reports the mean hit rate.
func (s *EvaluationService) Sweep(ctx context.Context, samples []domain.EvaluationSample, ks []int) ([]domain.SweepPoint, error) {
	if len(ks) == 0 {
		return nil, fmt.Errorf("%w: no k values to sweep", domain.ErrEmptyInput)
	}

	points := make([]domain.SweepPoint, 0, len(ks))
	for _, k := range ks {
		report, err := s.Evaluate(ctx, samples, k)
		if err != nil {
			return nil, fmt.Errorf("k=%d: %w", k, err)
		}
		points = append(points, domain.SweepPoint{K: k, MeanHitRate: report.Summary.Mean})
	}
	return points, nil
}

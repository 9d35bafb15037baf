package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

func TestEvaluationService_Evaluate(t *testing.T) {
	svc := NewEvaluationService(newTestRetrieval(t, 10))
	samples := []domain.EvaluationSample{
		{Question: "discharge?", ExpectedKeywords: []string{"discharge", "process"}},
		{Question: "facilities?", ExpectedKeywords: []string{"parking", "room", "equipment", "facilities"}},
	}

	report, err := svc.Evaluate(context.Background(), samples, 10)
	require.NoError(t, err)

	assert.Equal(t, 10, report.K)
	require.Len(t, report.Results, 2)

	assert.Equal(t, "discharge?", report.Results[0].Question)
	assert.Equal(t, 1.0, report.Results[0].HitRate)
	assert.Equal(t, 3, report.Results[0].DocumentsRetrieved)

	assert.Equal(t, 0.25, report.Results[1].HitRate)
	assert.Equal(t, []string{"parking", "room", "equipment", "facilities"}, report.Results[1].Keywords)

	assert.InDelta(t, 0.625, report.Summary.Mean, 1e-9)
	assert.InDelta(t, 0.625, report.Summary.Median, 1e-9)
	assert.Equal(t, 0.25, report.Summary.Min)
	assert.Equal(t, 1.0, report.Summary.Max)
}

func TestEvaluationService_Evaluate_HitRateGrowsWithK(t *testing.T) {
	svc := NewEvaluationService(newTestRetrieval(t, 10))
	samples := []domain.EvaluationSample{
		{Question: "q", ExpectedKeywords: []string{"discharge", "nurses", "parking"}},
	}

	prev := 0.0
	for _, k := range []int{1, 2, 3} {
		report, err := svc.Evaluate(context.Background(), samples, k)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, report.Results[0].HitRate, prev)
		prev = report.Results[0].HitRate
	}
	assert.Equal(t, 1.0, prev)
}

func TestEvaluationService_Evaluate_NoSamples(t *testing.T) {
	svc := NewEvaluationService(newTestRetrieval(t, 10))

	_, err := svc.Evaluate(context.Background(), nil, 5)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestEvaluationService_Evaluate_PropagatesRetrievalError(t *testing.T) {
	retrieval := NewRetrievalService(&mockEmbedder{}, NewIndexHandle("idx"), 3)
	svc := NewEvaluationService(retrieval)

	_, err := svc.Evaluate(context.Background(), domain.DefaultEvaluationSamples(), 3)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
	assert.Contains(t, err.Error(), "sample 1")
}

func TestEvaluationService_Evaluate_InvalidK(t *testing.T) {
	svc := NewEvaluationService(newTestRetrieval(t, 10))

	_, err := svc.Evaluate(context.Background(), domain.DefaultEvaluationSamples(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEvaluationService_Sweep(t *testing.T) {
	svc := NewEvaluationService(newTestRetrieval(t, 10))
	samples := []domain.EvaluationSample{
		{Question: "q", ExpectedKeywords: []string{"discharge", "nurses", "parking", "missing"}},
	}

	points, err := svc.Sweep(context.Background(), samples, []int{1, 3, 5, 10})
	require.NoError(t, err)

	assert.Equal(t, []domain.SweepPoint{
		{K: 1, MeanHitRate: 0.25},
		{K: 3, MeanHitRate: 0.75},
		{K: 5, MeanHitRate: 0.75},
		{K: 10, MeanHitRate: 0.75},
	}, points)
}

func TestEvaluationService_Sweep_NoKs(t *testing.T) {
	svc := NewEvaluationService(newTestRetrieval(t, 10))

	_, err := svc.Sweep(context.Background(), domain.DefaultEvaluationSamples(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

package mcp

import (
	"context"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results  []domain.ScoredDocument
	err      error
	defaultK int
	gotK     int
	gotQuery string
}

func (m *mockRetrievalService) Query(_ context.Context, text string, k int) ([]domain.ScoredDocument, error) {
	m.gotQuery = text
	m.gotK = k
	return m.results, m.err
}

func (m *mockRetrievalService) DefaultK() int {
	if m.defaultK == 0 {
		return 10
	}
	return m.defaultK
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer *domain.Answer
	err    error
}

func (m *mockAnswerService) Answer(_ context.Context, _ string) (*domain.Answer, error) {
	return m.answer, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	info   domain.IndexInfo
	status domain.BuildStatus
	err    error
}

func (m *mockIndexService) Build(_ context.Context, _ bool) (*domain.BuildReport, error) {
	return &domain.BuildReport{}, m.err
}

func (m *mockIndexService) Ensure(_ context.Context, _ bool) (*domain.BuildReport, error) {
	return nil, m.err
}

func (m *mockIndexService) Open(_ context.Context) error {
	return m.err
}

func (m *mockIndexService) Info(_ context.Context) domain.IndexInfo {
	return m.info
}

func (m *mockIndexService) Status() domain.BuildStatus {
	return m.status
}

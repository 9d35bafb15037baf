package services

import (
	"context"
	"fmt"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driving"
)

// Ensure DataCheckService implements the interface.
var _ driving.DataCheckService = (*DataCheckService)(nil)

// sampleReviewCount is how many review texts the data check shows.
const sampleReviewCount = 3

// DataCheckService inspects the raw review file.
type DataCheckService struct {
	source driven.RecordSource
}

// NewDataCheckService creates a data check service.
func NewDataCheckService(source driven.RecordSource) *DataCheckService {
	return &DataCheckService{source: source}
}

// Check returns the row count, columns, per-column completeness and a few sample reviews.
func (s *DataCheckService) Check(ctx context.Context) (*domain.DataReport, error) {
	if s.source == nil {
		return nil, fmt.Errorf("%w: record source not configured", domain.ErrSourceNotFound)
	}
	return s.source.Inspect(ctx, sampleReviewCount)
}

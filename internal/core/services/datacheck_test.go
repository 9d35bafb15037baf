package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

func TestDataCheckService_Check(t *testing.T) {
	source := &mockRecordSource{report: &domain.DataReport{Path: "reviews.csv", Rows: 2}}
	svc := NewDataCheckService(source)

	report, err := svc.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, 3, source.sample)
}

func TestDataCheckService_Check_Missing(t *testing.T) {
	svc := NewDataCheckService(&mockRecordSource{err: domain.ErrSourceNotFound})

	_, err := svc.Check(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}

func TestDataCheckService_Check_NoSource(t *testing.T) {
	_, err := NewDataCheckService(nil).Check(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}

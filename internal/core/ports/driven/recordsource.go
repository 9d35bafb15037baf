package driven

import (
	"context"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// RecordSource reads raw review records from a tabular source.
type RecordSource interface {
	// Load returns every record in source order.
	// Returns domain.ErrSourceNotFound if the underlying file is absent.
	Load(ctx context.Context) ([]domain.ReviewRecord, error)

	// Inspect summarises the source without building records.
	// sampleSize limits how many review texts are included in the report.
	Inspect(ctx context.Context, sampleSize int) (*domain.DataReport, error)

	// Path returns the location of the source.
	Path() string
}

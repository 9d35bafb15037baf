package driving

import (
	"context"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// DataCheckService reports on the integrity of the raw review file.
type DataCheckService interface {
	// Check inspects the source and returns its shape.
	Check(ctx context.Context) (*domain.DataReport, error)
}

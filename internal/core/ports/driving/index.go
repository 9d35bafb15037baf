package driving

import (
	"context"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// IndexService builds, loads and reports on the vector index.
type IndexService interface {
	// Build ingests every record from the source into a new index.
	// recreate removes any persisted index first.
	Build(ctx context.Context, recreate bool) (*domain.BuildReport, error)

	// Ensure makes a queryable index available.
	// It builds when recreate is set or nothing is persisted, and opens otherwise.
	// The report is nil when an existing index was opened.
	Ensure(ctx context.Context, recreate bool) (*domain.BuildReport, error)

	// Open attaches the persisted index without building.
	// Returns domain.ErrIndexUnavailable when nothing is persisted.
	Open(ctx context.Context) error

	// Info describes the attached index.
	Info(ctx context.Context) domain.IndexInfo

	// Status returns progress of the current or last build.
	Status() domain.BuildStatus
}

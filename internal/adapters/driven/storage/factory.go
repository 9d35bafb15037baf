// Package storage selects a vector store implementation.
//
// Backends:
//   - sqlite: a single index.db file under the index path (default)
//   - badger: a BadgerDB directory at the index path
//   - memory: process memory only, nothing is persisted
package storage

import (
	"fmt"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/storage/badger"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/storage/memory"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/storage/sqlite"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
)

// NewVectorStore returns the store for backend rooted at path.
func NewVectorStore(backend domain.IndexBackend, path string) (driven.VectorStore, error) {
	switch backend {
	case domain.IndexBackendSQLite, "":
		return sqlite.NewVectorStore(path), nil
	case domain.IndexBackendBadger:
		return badger.NewVectorStore(path), nil
	case domain.IndexBackendMemory:
		return memory.NewVectorStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown index backend %q", domain.ErrInvalidInput, backend)
	}
}

package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driving"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/logger"
)

// Ensure IndexManager implements the interface.
var _ driving.IndexService = (*IndexManager)(nil)

// IndexManager decides when to build and when to load the index.
type IndexManager struct {
	source    driven.RecordSource
	store     driven.VectorStore
	handle    *IndexHandle
	scheduler *BatchScheduler

	// buildMu serialises Build, Ensure and Open.
	buildMu sync.Mutex
}

// NewIndexManager creates an index manager.
func NewIndexManager(
	source driven.RecordSource,
	store driven.VectorStore,
	handle *IndexHandle,
	scheduler *BatchScheduler,
) *IndexManager {
	return &IndexManager{
		source:    source,
		store:     store,
		handle:    handle,
		scheduler: scheduler,
	}
}

// Build loads every record and runs the batch scheduler over them.
func (m *IndexManager) Build(ctx context.Context, recreate bool) (*domain.BuildReport, error) {
	m.buildMu.Lock()
	defer m.buildMu.Unlock()
	return m.build(ctx, recreate)
}

func (m *IndexManager) build(ctx context.Context, recreate bool) (*domain.BuildReport, error) {
	if m.source == nil {
		return nil, fmt.Errorf("%w: record source not configured", domain.ErrSourceNotFound)
	}

	logger.Section("Build index")
	logger.Info("Loading records from %s", m.source.Path())

	records, err := m.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	logger.Debug("Loaded %d records", len(records))

	return m.scheduler.Run(ctx, records, recreate)
}

// Ensure builds when recreate is set or nothing is persisted, otherwise
// opens the persisted index. The report is nil when nothing was built.
func (m *IndexManager) Ensure(ctx context.Context, recreate bool) (*domain.BuildReport, error) {
	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	if recreate {
		logger.Info("Recreate requested, rebuilding index")
		return m.build(ctx, true)
	}
	if m.handle.State() == domain.IndexPersisted {
		return nil, nil
	}

	index, err := m.store.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	if index == nil {
		logger.Info("No index found at %s, building", m.store.Path())
		return m.build(ctx, true)
	}
	if err := m.handle.Load(index); err != nil {
		index.Close()
		return nil, err
	}

	logger.Info("Loaded existing index from %s", m.store.Path())
	return nil, nil
}

// Open attaches the persisted index. It never builds.
func (m *IndexManager) Open(ctx context.Context) error {
	m.buildMu.Lock()
	defer m.buildMu.Unlock()

	if m.handle.State() == domain.IndexPersisted {
		return nil
	}

	index, err := m.store.Open(ctx)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	if index == nil {
		return fmt.Errorf("%w: vector store not found at %s. Run `reviewrag build` or start the app with --recreate-db",
			domain.ErrIndexUnavailable, m.store.Path())
	}
	if err := m.handle.Load(index); err != nil {
		index.Close()
		return err
	}
	return nil
}

// Info describes the attached index.
func (m *IndexManager) Info(ctx context.Context) domain.IndexInfo {
	return m.handle.Info(ctx)
}

// Status returns progress of the current or last build.
func (m *IndexManager) Status() domain.BuildStatus {
	return m.scheduler.Status()
}

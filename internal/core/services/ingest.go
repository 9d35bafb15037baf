package services

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/logger"
)

// Cooldown suspends the scheduler between batches.
type Cooldown interface {
	// Wait blocks for d or until ctx is done, whichever comes first.
	Wait(ctx context.Context, d time.Duration) error
}

// TimerCooldown waits on a real timer.
type TimerCooldown struct{}

// Wait blocks for d. It returns ctx.Err() if ctx is cancelled first.
func (TimerCooldown) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BatchScheduler ingests records into the vector index in fixed-size batches.
//
// One batch is one embedding burst. The first batch creates the index, later
// batches append to it, and the scheduler sleeps for the configured wait
// between consecutive batches. After the final batch the index is persisted
// and no wait follows. Batches run strictly in order on the calling goroutine.
type BatchScheduler struct {
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	handle    *IndexHandle
	cooldown  Cooldown
	batchSize int
	batchWait time.Duration
	newID     func() string

	// Status tracking
	mu     sync.RWMutex
	status domain.BuildStatus
}

// NewBatchScheduler creates a scheduler writing through handle into store.
func NewBatchScheduler(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	handle *IndexHandle,
	settings domain.IngestSettings,
) *BatchScheduler {
	return &BatchScheduler{
		embedder:  embedder,
		store:     store,
		handle:    handle,
		cooldown:  TimerCooldown{},
		batchSize: settings.BatchSize,
		batchWait: settings.BatchWait,
		newID:     uuid.NewString,
	}
}

// SetCooldown replaces the wait implementation.
func (s *BatchScheduler) SetCooldown(c Cooldown) {
	if c != nil {
		s.cooldown = c
	}
}

// Status returns a snapshot of the current or last run.
func (s *BatchScheduler) Status() domain.BuildStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *BatchScheduler) updateStatus(fn func(*domain.BuildStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.status)
}

// Run embeds and indexes records. recreate is passed to the store on the
// first batch. Any embedding or storage failure aborts the run; batches
// already written are not rolled back.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (s *BatchScheduler) Run(ctx context.Context, records []domain.ReviewRecord, recreate bool) (*domain.BuildReport, error) {
	// 1. Partition before touching the index so bad input leaves it alone
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records to ingest", domain.ErrEmptyInput)
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: embedding service not configured", domain.ErrEmbeddingGateway)
	}
	if s.store == nil {
		return nil, fmt.Errorf("%w: vector store not configured", domain.ErrUninitializedIndex)
	}
	if s.batchWait < 0 {
		return nil, fmt.Errorf("%w: batch wait must not be negative, got %s", domain.ErrInvalidInput, s.batchWait)
	}
	batches, err := domain.PartitionBatches(records, s.batchSize)
	if err != nil {
		return nil, err
	}

	// 2. Take the handle; this waits for running searches to finish
	if err := s.handle.BeginBuild(); err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			s.handle.Abort()
		}
	}()

	start := time.Now()
	report := &domain.BuildReport{
		Records:    len(records),
		BatchSizes: make([]int, 0, len(batches)),
		Path:       s.store.Path(),
	}
	s.updateStatus(func(st *domain.BuildStatus) {
		*st = domain.BuildStatus{Running: true, BatchCount: len(batches)}
	})
	defer s.updateStatus(func(st *domain.BuildStatus) {
		st.Running = false
		st.Waiting = false
	})

	logger.Info("Ingesting %d records in %d batches of up to %d", len(records), len(batches), s.batchSize)

	// 3. Process batches in order
	last := len(batches) - 1
	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Info("Processing batch %d/%d (%d documents)", batch.Index+1, len(batches), batch.Len())

		docs, err := s.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}

		if batch.Index == 0 {
			if recreate {
				s.handle.ReleasePrevious()
			}
			index, err := s.store.Create(ctx, docs, recreate)
			if err != nil {
				return nil, fmt.Errorf("create index: %w", err)
			}
			if err := s.handle.Attach(index); err != nil {
				index.Close()
				return nil, err
			}
		} else {
			if err := s.handle.Append(ctx, docs); err != nil {
				return nil, fmt.Errorf("append batch %d: %w", batch.Index+1, err)
			}
		}

		report.BatchSizes = append(report.BatchSizes, batch.Len())
		s.updateStatus(func(st *domain.BuildStatus) {
			st.BatchesDone++
			st.DocumentsIndexed += batch.Len()
		})

		// 4. Persist after the final batch, otherwise cool down
		if batch.Index == last {
			logger.Info("Batch %d/%d complete (final batch). Persisting store...", batch.Index+1, len(batches))
			if err := s.handle.Persist(ctx); err != nil {
				return nil, fmt.Errorf("persist index: %w", err)
			}
			break
		}

		logger.Info("Waiting %s before next batch", s.batchWait)
		s.updateStatus(func(st *domain.BuildStatus) { st.Waiting = true })
		if err := s.cooldown.Wait(ctx, s.batchWait); err != nil {
			return nil, err
		}
		s.updateStatus(func(st *domain.BuildStatus) { st.Waiting = false })
		report.Waits++
	}

	committed = true
	report.Duration = time.Since(start)
	logger.Info("Ingestion complete: %d documents in %d batches (%s)", report.Records, report.Batches(), report.Duration.Round(time.Millisecond))
	return report, nil
}

// embedBatch makes one gateway call for the whole batch.
func (s *BatchScheduler) embedBatch(ctx context.Context, batch domain.Batch) ([]domain.EmbeddedDocument, error) {
	texts := make([]string, batch.Len())
	for i, r := range batch.Records {
		texts[i] = r.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: batch %d: %w", domain.ErrEmbeddingGateway, batch.Index+1, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: batch %d: got %d embeddings for %d texts",
			domain.ErrEmbeddingGateway, batch.Index+1, len(vectors), len(texts))
	}

	docs := make([]domain.EmbeddedDocument, batch.Len())
	for i, r := range batch.Records {
		docs[i] = domain.EmbeddedDocument{
			ID:        s.newID(),
			RecordID:  r.ID,
			Text:      r.Text,
			Metadata:  maps.Clone(r.Metadata),
			Embedding: vectors[i],
		}
	}
	return docs, nil
}

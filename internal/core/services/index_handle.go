package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
)

// IndexHandle owns the vector index shared by the build path and the query path.
//
// All lifecycle moves go through domain.IndexState transitions. Searches hold
// the read lock for their whole duration, so a rebuild cannot close the index
// under a running query; it waits for in-flight queries to drain instead.
// Queries that arrive while a build is running fail fast with
// domain.ErrIndexUnavailable rather than blocking behind the cooldowns.
//
// The index loaded before a rebuild is held aside until the replacement is
// created, so a build that fails before touching storage restores it.
type IndexHandle struct {
	mu       sync.RWMutex
	state    domain.IndexState
	index    driven.VectorIndex
	previous driven.VectorIndex
	path     string
}

// NewIndexHandle creates an empty handle for an index persisted at path.
func NewIndexHandle(path string) *IndexHandle {
	return &IndexHandle{
		state: domain.IndexUninitialized,
		path:  path,
	}
}

// State returns the current lifecycle state.
func (h *IndexHandle) State() domain.IndexState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Path returns the persist location this handle was created for.
func (h *IndexHandle) Path() string {
	return h.path
}

// BeginBuild moves the handle to building and sets any loaded index aside.
// Blocks until running searches finish.
func (h *IndexHandle) BeginBuild() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next, err := h.state.Transition(domain.IndexBuilding)
	if err != nil {
		if h.state == domain.IndexBuilding {
			return fmt.Errorf("%w: a build is already running", err)
		}
		return err
	}

	h.previous = h.index
	h.index = nil
	h.state = next
	return nil
}

// ReleasePrevious closes the index set aside by BeginBuild. Call it before
// the store removes the persisted files.
func (h *IndexHandle) ReleasePrevious() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.releasePreviousLocked()
}

func (h *IndexHandle) releasePreviousLocked() {
	if h.previous != nil {
		h.previous.Close()
		h.previous = nil
	}
}

// Attach sets the index created from the first batch.
func (h *IndexHandle) Attach(index driven.VectorIndex) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != domain.IndexBuilding {
		return fmt.Errorf("%w: attach while %s", domain.ErrIllegalTransition, h.state)
	}
	if index == nil {
		return fmt.Errorf("%w: create returned no index", domain.ErrUninitializedIndex)
	}
	if h.index != nil {
		return fmt.Errorf("%w: index already attached", domain.ErrIllegalTransition)
	}
	h.releasePreviousLocked()
	h.index = index
	return nil
}

// building returns the index being built, or ErrUninitializedIndex.
func (h *IndexHandle) building() (driven.VectorIndex, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.state != domain.IndexBuilding || h.index == nil {
		return nil, fmt.Errorf("%w: append requires a created index (state %s)", domain.ErrUninitializedIndex, h.state)
	}
	return h.index, nil
}

// Append adds documents to the index being built.
func (h *IndexHandle) Append(ctx context.Context, docs []domain.EmbeddedDocument) error {
	index, err := h.building()
	if err != nil {
		return err
	}
	return index.Append(ctx, docs)
}

// Persist flushes the index being built and makes it queryable.
func (h *IndexHandle) Persist(ctx context.Context) error {
	index, err := h.building()
	if err != nil {
		return err
	}
	if err := index.Persist(ctx); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	next, err := h.state.Transition(domain.IndexPersisted)
	if err != nil {
		return err
	}
	h.state = next
	return nil
}

// Abort abandons a build. Documents already written stay in storage.
// If no replacement was created, the previous index is queryable again.
func (h *IndexHandle) Abort() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != domain.IndexBuilding {
		return
	}
	if h.index != nil {
		h.index.Close()
		h.index = nil
	}
	if h.previous != nil {
		h.index = h.previous
		h.previous = nil
		h.state = domain.IndexPersisted
		return
	}
	h.state = domain.IndexUninitialized
}

// Load attaches a previously persisted index opened from storage.
func (h *IndexHandle) Load(index driven.VectorIndex) error {
	if index == nil {
		return fmt.Errorf("%w: nothing to load", domain.ErrIndexUnavailable)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	next, err := h.state.Transition(domain.IndexPersisted)
	if err != nil {
		return err
	}
	h.index = index
	h.state = next
	return nil
}

// Search runs a similarity search against the persisted index.
func (h *IndexHandle) Search(ctx context.Context, query []float32, k int) ([]domain.ScoredDocument, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if err := h.availableLocked(); err != nil {
		return nil, err
	}
	return h.index.Search(ctx, query, k)
}

// Available returns nil when searches can run.
func (h *IndexHandle) Available() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.availableLocked()
}

func (h *IndexHandle) availableLocked() error {
	switch {
	case h.state == domain.IndexBuilding:
		return fmt.Errorf("%w: index rebuild in progress", domain.ErrIndexUnavailable)
	case !h.state.Queryable() || h.index == nil:
		return fmt.Errorf("%w: index has not been built or loaded", domain.ErrIndexUnavailable)
	default:
		return nil
	}
}

// Info returns the state and document count.
func (h *IndexHandle) Info(ctx context.Context) domain.IndexInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	info := domain.IndexInfo{State: h.state, Path: h.path}
	if h.index != nil && h.state.Queryable() {
		if n, err := h.index.Count(ctx); err == nil {
			info.Documents = n
		}
	}
	return info
}

// Close detaches and closes the index.
func (h *IndexHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.index != nil {
		err = h.index.Close()
		h.index = nil
	}
	h.releasePreviousLocked()
	h.state = domain.IndexUninitialized
	return err
}

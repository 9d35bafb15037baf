package domain

import (
	"fmt"
	"time"
)

// IndexState is the lifecycle state of the vector index.
type IndexState string

// Index lifecycle states.
const (
	// IndexUninitialized means no index is attached: never built, or not loaded yet.
	IndexUninitialized IndexState = "uninitialized"

	// IndexBuilding means an ingestion run has created the index and is appending batches.
	IndexBuilding IndexState = "building"

	// IndexPersisted means the index has been flushed to durable storage and is queryable.
	IndexPersisted IndexState = "persisted"
)

// String returns the string representation.
func (s IndexState) String() string {
	return string(s)
}

// Queryable reports whether searches may run against an index in this state.
func (s IndexState) Queryable() bool {
	return s == IndexPersisted
}

// CanTransition reports whether moving from s to next is allowed.
//
//	uninitialized -> building   (first batch creates the index)
//	uninitialized -> persisted  (an existing index was opened)
//	building      -> persisted  (final batch persisted)
//	building      -> uninitialized (build aborted)
//	persisted     -> building   (rebuild requested)
//	persisted     -> uninitialized (index closed)
func (s IndexState) CanTransition(next IndexState) bool {
	switch s {
	case IndexUninitialized:
		return next == IndexBuilding || next == IndexPersisted
	case IndexBuilding:
		return next == IndexPersisted || next == IndexUninitialized
	case IndexPersisted:
		return next == IndexBuilding || next == IndexUninitialized
	default:
		return false
	}
}

// Transition returns next if the move is allowed, otherwise ErrIllegalTransition.
func (s IndexState) Transition(next IndexState) (IndexState, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, next)
	}
	return next, nil
}

// BuildReport summarises a completed ingestion run.
type BuildReport struct {
	// Records is the number of records ingested.
	Records int

	// BatchSizes lists the size of each batch, in order.
	BatchSizes []int

	// Waits is the number of cooldown waits performed.
	Waits int

	// Duration is the wall time of the whole run, including waits.
	Duration time.Duration

	// Path is where the index was persisted.
	Path string
}

// Batches returns the number of batches processed.
func (r BuildReport) Batches() int {
	return len(r.BatchSizes)
}

// BuildStatus is a snapshot of an in-progress ingestion run.
type BuildStatus struct {
	// Running is true while a run is in progress.
	Running bool

	// BatchesDone is the number of batches written so far.
	BatchesDone int

	// BatchCount is the total number of batches in this run.
	BatchCount int

	// DocumentsIndexed is the number of documents written so far.
	DocumentsIndexed int

	// Waiting is true while the scheduler is in a cooldown.
	Waiting bool
}

// IndexInfo describes the index currently attached to a handle.
type IndexInfo struct {
	// State is the lifecycle state.
	State IndexState

	// Documents is the document count, 0 when no index is attached.
	Documents int

	// Path is the configured persist location.
	Path string
}

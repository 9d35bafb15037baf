package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrEmptyInput indicates an operation was given nothing to work on,
	// such as an ingestion run over zero records.
	ErrEmptyInput = errors.New("empty input")

	// Source Errors.

	// ErrSourceNotFound indicates the raw review file does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrMissingCredential indicates the API key environment variable is unset.
	ErrMissingCredential = errors.New("missing credential")

	// Index Errors.

	// ErrUninitializedIndex indicates an append was attempted before the index was created.
	// Reaching it means the scheduler sequenced its calls incorrectly.
	ErrUninitializedIndex = errors.New("index not initialised")

	// ErrIndexUnavailable indicates the index failed to load, was never built,
	// or is being rebuilt.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrIndexExists indicates a create was attempted over a persisted index
	// without asking for it to be recreated.
	ErrIndexExists = errors.New("index already exists")

	// ErrIllegalTransition indicates an index lifecycle transition that is not allowed.
	ErrIllegalTransition = errors.New("illegal index state transition")

	// Gateway Errors.

	// ErrEmbeddingGateway wraps any failure from the remote embedding call.
	// Ingestion aborts on it; there is no automatic retry.
	ErrEmbeddingGateway = errors.New("embedding gateway error")

	// ErrLLMUnavailable indicates the chat model is not configured.
	// Retrieval still works; answer generation is disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies a provider for embeddings or chat.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is the OpenAI API or any OpenAI-compatible server.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderLocal is the built-in offline hashing embedder.
	// It has no chat model.
	AIProviderLocal AIProvider = "local"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderLocal:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud or compatible)"
	case AIProviderLocal:
		return "Local hashing embedder (offline)"
	default:
		return unknownDescription
	}
}

// IndexBackend identifies the vector store implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendSQLite persists to a single SQLite file. This is the default.
	IndexBackendSQLite IndexBackend = "sqlite"

	// IndexBackendBadger persists to a BadgerDB directory.
	IndexBackendBadger IndexBackend = "badger"

	// IndexBackendMemory keeps the index in process memory only.
	IndexBackendMemory IndexBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendSQLite, IndexBackendBadger, IndexBackendMemory:
		return true
	default:
		return false
	}
}

// Default settings values.
const (
	DefaultEmbeddingModel   = "text-embedding-004"
	DefaultChatModel        = "gemini-2.5-flash"
	DefaultTemperature      = 0.0
	DefaultTopKRetrieval    = 10
	DefaultBatchSize        = 20
	DefaultBatchWaitSeconds = 30
	DefaultCSVPath          = "data/raw/reviews.csv"
	DefaultReviewColumn     = "review"
	DefaultIndexPath        = "artifacts/index"
	DefaultAPIKeyEnvVar     = "GOOGLE_API_KEY"
)

// EmbeddingSettings configures the embedding gateway.
type EmbeddingSettings struct {
	// Provider selects the gateway implementation.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider endpoint (OpenAI-compatible servers).
	BaseURL string

	// RequestsPerMinute throttles gateway calls when positive.
	RequestsPerMinute int
}

// ChatSettings configures the answer generator.
type ChatSettings struct {
	// Provider selects the chat implementation.
	Provider AIProvider

	// Model is the chat model name.
	Model string

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// BaseURL overrides the provider endpoint.
	BaseURL string
}

// IngestSettings configures the batch ingestion scheduler.
type IngestSettings struct {
	// BatchSize is the number of records embedded per gateway burst.
	BatchSize int

	// BatchWait is the cooldown between consecutive batches.
	BatchWait time.Duration
}

// Settings is the full application configuration.
type Settings struct {
	Embedding EmbeddingSettings
	Chat      ChatSettings
	Ingest    IngestSettings

	// TopKRetrieval is the default number of documents per query.
	TopKRetrieval int

	// CSVPath is the raw review file.
	CSVPath string

	// ReviewColumn is the header of the column holding review text.
	ReviewColumn string

	// IndexPath is where the vector index is persisted.
	IndexPath string

	// IndexBackend selects the vector store implementation.
	IndexBackend IndexBackend

	// APIKeyEnvVar names the environment variable holding the API key.
	APIKeyEnvVar string
}

// DefaultSettings returns settings with every option at its default.
func DefaultSettings() Settings {
	return Settings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderGemini,
			Model:    DefaultEmbeddingModel,
		},
		Chat: ChatSettings{
			Provider:    AIProviderGemini,
			Model:       DefaultChatModel,
			Temperature: DefaultTemperature,
		},
		Ingest: IngestSettings{
			BatchSize: DefaultBatchSize,
			BatchWait: DefaultBatchWaitSeconds * time.Second,
		},
		TopKRetrieval: DefaultTopKRetrieval,
		CSVPath:       DefaultCSVPath,
		ReviewColumn:  DefaultReviewColumn,
		IndexPath:     DefaultIndexPath,
		IndexBackend:  IndexBackendSQLite,
		APIKeyEnvVar:  DefaultAPIKeyEnvVar,
	}
}

// NeedsAPIKey reports whether any configured provider requires a key.
func (s Settings) NeedsAPIKey() bool {
	return s.Embedding.Provider.RequiresAPIKey() || s.Chat.Provider.RequiresAPIKey()
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidInput, s.Embedding.Provider)
	}
	if s.Chat.Provider != "" && !s.Chat.Provider.IsValid() {
		return fmt.Errorf("%w: unknown chat provider %q", ErrInvalidInput, s.Chat.Provider)
	}
	if !s.IndexBackend.IsValid() {
		return fmt.Errorf("%w: unknown index backend %q", ErrInvalidInput, s.IndexBackend)
	}
	if s.Ingest.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be at least 1, got %d", ErrInvalidInput, s.Ingest.BatchSize)
	}
	if s.Ingest.BatchWait < 0 {
		return fmt.Errorf("%w: batch wait must not be negative, got %s", ErrInvalidInput, s.Ingest.BatchWait)
	}
	if s.TopKRetrieval < 1 {
		return fmt.Errorf("%w: top_k must be at least 1, got %d", ErrInvalidInput, s.TopKRetrieval)
	}
	if s.Embedding.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: requests_per_minute must not be negative", ErrInvalidInput)
	}
	if s.CSVPath == "" {
		return fmt.Errorf("%w: csv path is required", ErrInvalidInput)
	}
	if s.IndexPath == "" && s.IndexBackend != IndexBackendMemory {
		return fmt.Errorf("%w: index path is required", ErrInvalidInput)
	}
	return nil
}

package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedRPM      = "embedding.requests_per_minute"
	keyChatProvider  = "chat.provider"
	keyChatModel     = "chat.model"
	keyChatTemp      = "chat.temperature"
	keyChatBaseURL   = "chat.base_url"
	keyTopK          = "retrieval.top_k"
	keyBatchSize     = "ingest.batch_size"
	keyBatchWait     = "ingest.batch_wait_seconds"
	keyCSVPath       = "data.csv_path"
	keyReviewColumn  = "data.review_column"
	keyIndexPath     = "index.path"
	keyIndexBackend  = "index.backend"
	keyAPIKeyEnvVar  = "auth.api_key_env"
	chatProviderNone = "none"
)

// SettingsService resolves application settings from the config store.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
// configStore may be nil, in which case defaults are used throughout.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get returns the current settings with defaults applied.
// Unknown providers and backends are reported by validation rather than replaced.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := domain.Settings{
		Embedding: domain.EmbeddingSettings{
			Provider:          domain.AIProvider(s.getString(keyEmbedProvider, string(defaults.Embedding.Provider))),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.getString(keyEmbedBaseURL, ""),
			RequestsPerMinute: s.getInt(keyEmbedRPM, defaults.Embedding.RequestsPerMinute),
		},
		Chat: domain.ChatSettings{
			Provider:    s.getChatProvider(defaults.Chat.Provider),
			Model:       s.getString(keyChatModel, defaults.Chat.Model),
			Temperature: s.getFloat(keyChatTemp, defaults.Chat.Temperature),
			BaseURL:     s.getString(keyChatBaseURL, ""),
		},
		Ingest: domain.IngestSettings{
			BatchSize: s.getInt(keyBatchSize, defaults.Ingest.BatchSize),
			BatchWait: s.getSeconds(keyBatchWait, defaults.Ingest.BatchWait),
		},
		TopKRetrieval: s.getInt(keyTopK, defaults.TopKRetrieval),
		CSVPath:       s.getString(keyCSVPath, defaults.CSVPath),
		ReviewColumn:  s.getString(keyReviewColumn, defaults.ReviewColumn),
		IndexPath:     s.getString(keyIndexPath, defaults.IndexPath),
		IndexBackend:  domain.IndexBackend(s.getString(keyIndexBackend, string(defaults.IndexBackend))),
		APIKeyEnvVar:  s.getString(keyAPIKeyEnvVar, defaults.APIKeyEnvVar),
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// APIKey reads the key from the configured environment variable.
func (s *SettingsService) APIKey() (string, error) {
	name := s.getString(keyAPIKeyEnvVar, domain.DefaultAPIKeyEnvVar)
	val, ok := s.lookupEnv(name)
	if !ok || strings.TrimSpace(val) == "" {
		return "", fmt.Errorf("%w: %s is not set", domain.ErrMissingCredential, name)
	}
	return strings.TrimSpace(val), nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if s.configStore == nil {
		return defaultVal
	}
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt treats a present zero as a real value so validation can reject it.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if s.configStore == nil {
		return defaultVal
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if s.configStore == nil {
		return defaultVal
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if s.configStore == nil {
		return defaultVal
	}
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetFloat(key) * float64(time.Second))
}

// getChatProvider maps "none" to an empty provider, which disables answers.
func (s *SettingsService) getChatProvider(defaultVal domain.AIProvider) domain.AIProvider {
	val := s.getString(keyChatProvider, string(defaultVal))
	if val == chatProviderNone {
		return ""
	}
	return domain.AIProvider(val)
}

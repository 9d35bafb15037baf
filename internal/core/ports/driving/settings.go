package driving

import "github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"

// SettingsService resolves application settings.
type SettingsService interface {
	// Get returns the current settings with defaults applied and validated.
	Get() (domain.Settings, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings

	// APIKey returns the API key from the configured environment variable.
	// Returns domain.ErrMissingCredential when it is unset.
	APIKey() (string, error)
}

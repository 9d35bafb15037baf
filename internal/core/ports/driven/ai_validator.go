package driven

import (
	"context"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// AIConfigValidator validates AI provider configurations.
// Implementations verify that configurations are valid by testing connectivity
// to the underlying AI services.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration by pinging the provider.
	ValidateEmbedding(ctx context.Context, config domain.EmbeddingSettings, apiKey string) error

	// ValidateLLM validates a chat configuration by pinging the provider.
	// Returns nil if chat is disabled.
	ValidateLLM(ctx context.Context, config domain.ChatSettings, apiKey string) error
}

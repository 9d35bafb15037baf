package ai

import (
	"context"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding creates the embedding service, pings it and closes it.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, config domain.EmbeddingSettings, apiKey string) error {
	svc, err := CreateAndValidateEmbeddingService(ctx, config, apiKey)
	if err != nil {
		return err
	}
	return svc.Close()
}

// ValidateLLM creates the chat service, pings it and closes it.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, config domain.ChatSettings, apiKey string) error {
	svc, err := CreateAndValidateLLMService(ctx, config, apiKey)
	if err != nil || svc == nil {
		return err
	}
	return svc.Close()
}

package ai

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

func TestNewConfigValidator(t *testing.T) {
	require.NotNil(t, NewConfigValidator())
}

func TestConfigValidator_ValidateEmbedding(t *testing.T) {
	v := NewConfigValidator()
	ctx := context.Background()

	assert.NoError(t, v.ValidateEmbedding(ctx, domain.EmbeddingSettings{Provider: domain.AIProviderLocal}, ""))

	err := v.ValidateEmbedding(ctx, domain.EmbeddingSettings{Provider: domain.AIProviderGemini}, "")
	assert.ErrorIs(t, err, domain.ErrEmbeddingGateway)
}

func TestConfigValidator_ValidateLLM(t *testing.T) {
	v := NewConfigValidator()
	ctx := context.Background()

	// Disabled chat has nothing to validate
	assert.NoError(t, v.ValidateLLM(ctx, domain.ChatSettings{}, ""))

	srv := newModelsServer(t, http.StatusOK)
	assert.NoError(t, v.ValidateLLM(ctx, domain.ChatSettings{
		Provider: domain.AIProviderOpenAI,
		BaseURL:  srv.URL + "/v1",
	}, "test-key"))
}

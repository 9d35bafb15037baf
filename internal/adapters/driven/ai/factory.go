// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	geminiembed "github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/embedding/gemini"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/embedding/hashing"
	openaiembed "github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/embedding/openai"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/embedding/ratelimited"
	geminillm "github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/llm/gemini"
	openaillm "github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/llm/openai"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// errNoLocalChat is returned when the local provider is selected for chat.
var errNoLocalChat = errors.New("the local provider has no chat model, use gemini or openai")

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService // Nil when chat is disabled or unavailable.
	Warnings         []string          // Non-fatal issues that disabled chat.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init builds the embedding gateway and, when configured, the chat model.
// The embedding gateway is required. A chat model that cannot be
// created or reached is reported as a warning and left nil, so retrieval
// keeps working without answers.
func Init(ctx context.Context, settings domain.Settings, apiKey string, validate bool) (*InitResult, error) {
	create := CreateEmbeddingService
	createLLM := CreateLLMService
	if validate {
		create = CreateAndValidateEmbeddingService
		createLLM = CreateAndValidateLLMService
	}

	embedder, err := create(ctx, settings.Embedding, apiKey)
	if err != nil {
		return nil, err
	}
	result := &InitResult{EmbeddingService: embedder}

	llm, err := createLLM(ctx, settings.Chat, apiKey)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		return result, nil
	}
	result.LLMService = llm
	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(
	ctx context.Context,
	settings domain.EmbeddingSettings,
	apiKey string,
) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(ctx, settings, apiKey)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'reviewrag doctor' to diagnose",
			domain.ErrEmbeddingGateway, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates a chat service and validates connectivity.
// Returns nil when chat is disabled.
func CreateAndValidateLLMService(
	ctx context.Context,
	settings domain.ChatSettings,
	apiKey string,
) (driven.LLMService, error) {
	svc, err := CreateLLMService(ctx, settings, apiKey)
	if err != nil || svc == nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'reviewrag doctor' to diagnose",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the embedding service selected by settings,
// rate limited when RequestsPerMinute is positive.
func CreateEmbeddingService(
	ctx context.Context,
	settings domain.EmbeddingSettings,
	apiKey string,
) (driven.EmbeddingService, error) {
	var (
		svc driven.EmbeddingService
		err error
	)

	switch settings.Provider {
	case domain.AIProviderGemini:
		svc, err = geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:  apiKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		svc, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  apiKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderLocal:
		svc = hashing.NewEmbeddingService(hashing.DefaultDimensions)

	default:
		err = fmt.Errorf("unsupported embedding provider: %q", settings.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check the [embedding] section of your config",
			domain.ErrEmbeddingGateway, err)
	}

	return ratelimited.Wrap(svc, settings.RequestsPerMinute), nil
}

// CreateLLMService creates the chat service selected by settings.
// Returns nil if chat is disabled.
func CreateLLMService(
	ctx context.Context,
	settings domain.ChatSettings,
	apiKey string,
) (driven.LLMService, error) {
	var (
		svc driven.LLMService
		err error
	)

	switch settings.Provider {
	case "":
		return nil, nil

	case domain.AIProviderGemini:
		svc, err = geminillm.NewLLMService(ctx, geminillm.LLMConfig{
			APIKey:  apiKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOpenAI:
		svc, err = openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  apiKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderLocal:
		err = errNoLocalChat

	default:
		err = fmt.Errorf("unsupported chat provider: %q", settings.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// Package gemini provides an embedding service adapter for the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel = "text-embedding-004"

	// TaskTypeDocument is used when indexing reviews.
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"

	// TaskTypeQuery is used for search queries.
	TaskTypeQuery = "RETRIEVAL_QUERY"
)

// Model dimensions for Gemini embedding models.
var modelDimensions = map[string]int{
	"text-embedding-004":   768,
	"gemini-embedding-001": 3072,
	"embedding-001":        768,
}

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL overrides the API endpoint. Leave empty for the public API.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-004).
	Model string

	// DocumentTaskType is sent with EmbedBatch (default: RETRIEVAL_DOCUMENT).
	DocumentTaskType string

	// QueryTaskType is sent with Embed (default: RETRIEVAL_QUERY).
	QueryTaskType string
}

// modelsAPI is the subset of *genai.Models used here.
type modelsAPI interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

// EmbeddingService generates embeddings using the Gemini API.
// Embed is the query path and EmbedBatch the indexing path; they carry
// different task types so both land in the matching retrieval space.
type EmbeddingService struct {
	models       modelsAPI
	model        string
	documentTask string
	queryTask    string
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newEmbeddingService(client.Models, cfg), nil
}

func newEmbeddingService(models modelsAPI, cfg Config) *EmbeddingService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.DocumentTaskType == "" {
		cfg.DocumentTaskType = TaskTypeDocument
	}
	if cfg.QueryTaskType == "" {
		cfg.QueryTaskType = TaskTypeQuery
	}
	return &EmbeddingService{
		models:       models,
		model:        cfg.Model,
		documentTask: cfg.DocumentTaskType,
		queryTask:    cfg.QueryTaskType,
	}
}

// Embed generates a query embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.embed(ctx, []string{text}, s.queryTask)
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, errors.New("gemini: no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates document embeddings for multiple texts in one request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return s.embed(ctx, texts, s.documentTask)
}

func (s *EmbeddingService) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	resp, err := s.models.EmbedContent(ctx, s.model, contents, &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: embed content: %w", err)
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		got := 0
		if resp != nil {
			got = len(resp.Embeddings)
		}
		return nil, fmt.Errorf("gemini: got %d embeddings for %d texts", got, len(texts))
	}

	embeddings := make([][]float32, len(texts))
	for i, e := range resp.Embeddings {
		if e == nil {
			return nil, fmt.Errorf("gemini: missing embedding for input %d", i)
		}
		embeddings[i] = e.Values
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size, or 0 for unknown models.
func (s *EmbeddingService) Dimensions() int {
	return modelDimensions[s.model]
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the key and model by fetching the model's metadata.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.models.Get(ctx, s.model, nil); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

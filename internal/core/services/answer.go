package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driving"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// Built-in prompts used when no prompt store is configured.
const (
	defaultReviewSystemPrompt = `Your job is to use patient reviews to answer questions about their experience at a hospital.
Use the following context to answer questions.
Be as detailed as possible, but don't make up any information that's not from the context.
If you don't know an answer, say you don't know.

{context}
`
	defaultReviewHumanPrompt = "{question}"
)

// AnswerService retrieves reviews for a question and asks the chat model
// to answer from them.
type AnswerService struct {
	retrieval   driving.RetrievalService
	llm         driven.LLMService
	promptStore driven.PromptStore
	temperature float64
	k           int
}

// NewAnswerService creates an answer service.
// llm may be nil, in which case Answer returns domain.ErrLLMUnavailable.
func NewAnswerService(
	retrieval driving.RetrievalService,
	llm driven.LLMService,
	promptStore driven.PromptStore,
	chat domain.ChatSettings,
) *AnswerService {
	return &AnswerService{
		retrieval:   retrieval,
		llm:         llm,
		promptStore: promptStore,
		temperature: chat.Temperature,
		k:           retrieval.DefaultK(),
	}
}

// Answer retrieves the top-k reviews and returns the chat model's reply.
func (s *AnswerService) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	sources, err := s.retrieval.Query(ctx, question, s.k)
	if err != nil {
		return nil, err
	}
	logger.Debug("Retrieved %d reviews for question", len(sources))

	texts := make([]string, len(sources))
	for i, src := range sources {
		texts[i] = src.Document.Text
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: strings.ReplaceAll(s.loadPrompt(driven.PromptReviewSystem), "{context}", strings.Join(texts, "\n\n"))},
		{Role: driven.RoleUser, Content: strings.ReplaceAll(s.loadPrompt(driven.PromptReviewHuman), "{question}", question)},
	}

	reply, err := s.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: s.temperature})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	return &domain.Answer{
		Question: question,
		Text:     strings.TrimSpace(reply),
		Sources:  sources,
	}, nil
}

// loadPrompt loads a prompt from the store, falling back to the built-in default.
func (s *AnswerService) loadPrompt(name string) string {
	if s.promptStore != nil {
		if prompt, err := s.promptStore.Load(name); err == nil && prompt != "" {
			return prompt
		}
		logger.Debug("Prompt %s not available from store, using default", name)
	}

	switch name {
	case driven.PromptReviewSystem:
		return defaultReviewSystemPrompt
	case driven.PromptReviewHuman:
		return defaultReviewHumanPrompt
	default:
		return ""
	}
}

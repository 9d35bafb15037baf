package driving

import (
	"context"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// AnswerService answers questions grounded on retrieved reviews.
type AnswerService interface {
	// Answer retrieves context for question and asks the chat model.
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}

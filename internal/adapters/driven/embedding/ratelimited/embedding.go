// Package ratelimited wraps an embedding service with a client-side request limit.
//
// Each Embed or EmbedBatch call counts as one request. The limiter smooths
// calls to the configured requests per minute and allows no burst, so a
// batch that follows a cooldown still waits its turn.
package ratelimited

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService delegates to another embedding service under a rate limit.
type EmbeddingService struct {
	next    driven.EmbeddingService
	limiter *rate.Limiter
}

// Wrap returns next limited to requestsPerMinute calls.
// A non-positive limit returns next unchanged.
func Wrap(next driven.EmbeddingService, requestsPerMinute int) driven.EmbeddingService {
	if requestsPerMinute <= 0 {
		return next
	}
	return New(next, requestsPerMinute)
}

// New creates a rate-limited embedding service.
func New(next driven.EmbeddingService, requestsPerMinute int) *EmbeddingService {
	interval := time.Minute / time.Duration(max(requestsPerMinute, 1))
	return &EmbeddingService{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (s *EmbeddingService) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// The limiter fails early when the next slot is past the deadline
		if _, ok := ctx.Deadline(); ok {
			return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// Embed waits for a request slot, then delegates.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.next.Embed(ctx, text)
}

// EmbedBatch waits for a request slot, then delegates.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.next.EmbedBatch(ctx, texts)
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.next.Dimensions()
}

// ModelName returns the wrapped service's model.
func (s *EmbeddingService) ModelName() string {
	return s.next.ModelName()
}

// Ping delegates without consuming a request slot.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error {
	return s.next.Close()
}

// Limit returns the configured requests per second.
func (s *EmbeddingService) Limit() rate.Limit {
	return s.limiter.Limit()
}

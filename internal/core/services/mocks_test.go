package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	stdsync "sync"
	"time"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
)

// --- Mock implementations shared by service tests ---

// mockEmbedder implements driven.EmbeddingService.
// Each text maps to a 2-dimensional vector chosen by vectorFor.
type mockEmbedder struct {
	mu         stdsync.Mutex
	batchCalls [][]string
	embedCalls []string
	failOnCall int // 1-based EmbedBatch call that fails, 0 = never
	embedErr   error
	short      bool
	vectorFor  func(text string) []float32
}

func (m *mockEmbedder) vector(text string) []float32 {
	if m.vectorFor != nil {
		return m.vectorFor(text)
	}
	return []float32{float32(len(text)), 1}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls = append(m.embedCalls, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls = append(m.batchCalls, texts)
	if m.failOnCall > 0 && len(m.batchCalls) == m.failOnCall {
		return nil, errors.New("quota exceeded")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	if m.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 2 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func (m *mockEmbedder) batchSizes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sizes := make([]int, len(m.batchCalls))
	for i, c := range m.batchCalls {
		sizes[i] = len(c)
	}
	return sizes
}

// mockIndex implements driven.VectorIndex with dot-product scoring.
type mockIndex struct {
	mu        stdsync.Mutex
	docs      []domain.EmbeddedDocument
	appends   int
	persists  int
	closed    bool
	appendErr error
	searchFn  func()
}

func (i *mockIndex) Append(_ context.Context, docs []domain.EmbeddedDocument) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.appendErr != nil {
		return i.appendErr
	}
	i.appends++
	i.docs = append(i.docs, docs...)
	return nil
}

func (i *mockIndex) Persist(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.persists++
	return nil
}

func (i *mockIndex) Search(_ context.Context, query []float32, k int) ([]domain.ScoredDocument, error) {
	if i.searchFn != nil {
		i.searchFn()
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	results := make([]domain.ScoredDocument, 0, len(i.docs))
	for _, d := range i.docs {
		var dot float64
		for j := range min(len(query), len(d.Embedding)) {
			dot += float64(query[j]) * float64(d.Embedding[j])
		}
		results = append(results, domain.ScoredDocument{Document: d, Similarity: dot})
	}
	sort.SliceStable(results, func(a, b int) bool { return results[a].Similarity > results[b].Similarity })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (i *mockIndex) Count(_ context.Context) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.docs), nil
}

func (i *mockIndex) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	return nil
}

// mockVectorStore implements driven.VectorStore.
type mockVectorStore struct {
	mu        stdsync.Mutex
	creates   []bool
	persisted *mockIndex
	current   *mockIndex
	createErr error
	appendErr error
	openErr   error
	opens     int
}

func (s *mockVectorStore) Create(_ context.Context, docs []domain.EmbeddedDocument, recreate bool) (driven.VectorIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates = append(s.creates, recreate)
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.persisted != nil && !recreate {
		return nil, domain.ErrIndexExists
	}
	s.current = &mockIndex{docs: append([]domain.EmbeddedDocument(nil), docs...), appendErr: s.appendErr}
	s.persisted = s.current
	return s.current, nil
}

func (s *mockVectorStore) Open(_ context.Context) (driven.VectorIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opens++
	if s.openErr != nil {
		return nil, s.openErr
	}
	if s.persisted == nil {
		return nil, nil
	}
	return s.persisted, nil
}

func (s *mockVectorStore) Path() string { return "/tmp/mock-index" }

// recordingCooldown implements Cooldown without sleeping.
type recordingCooldown struct {
	mu     stdsync.Mutex
	waits  []time.Duration
	err    error
	onWait func()
}

func (c *recordingCooldown) Wait(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	fn := c.onWait
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
	if c.err != nil {
		return c.err
	}
	return ctx.Err()
}

func (c *recordingCooldown) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waits)
}

// mockRecordSource implements driven.RecordSource.
type mockRecordSource struct {
	records []domain.ReviewRecord
	err     error
	report  *domain.DataReport
	loads   int
	sample  int
}

func (s *mockRecordSource) Load(_ context.Context) ([]domain.ReviewRecord, error) {
	s.loads++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *mockRecordSource) Inspect(_ context.Context, sampleSize int) (*domain.DataReport, error) {
	s.sample = sampleSize
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func (s *mockRecordSource) Path() string { return "reviews.csv" }

// mockLLM implements driven.LLMService.
type mockLLM struct {
	messages []driven.ChatMessage
	opts     driven.ChatOptions
	reply    string
	err      error
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.messages = messages
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string            { return "mock-chat" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", fmt.Errorf("prompt %s not found", name)
}

func (m *mockPromptStore) Reload() {}

// makeRecords returns n records with distinct texts.
func makeRecords(n int) []domain.ReviewRecord {
	records := make([]domain.ReviewRecord, n)
	for i := range records {
		records[i] = domain.ReviewRecord{
			ID:       i,
			Text:     fmt.Sprintf("review %d", i),
			Metadata: map[string]string{"row": fmt.Sprint(i)},
		}
	}
	return records
}

package openai

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
)

func newChatServer(t *testing.T, status int, reply string, got *map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			_ = json.NewDecoder(r.Body).Decode(got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	})
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"gpt-4o-mini","object":"model"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestLLM(t *testing.T, srv *httptest.Server) *LLMService {
	t.Helper()
	svc, err := NewLLMService(LLMConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	return svc
}

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	assert.Error(t, err)
}

func TestLLMService_Chat(t *testing.T) {
	var got map[string]any
	srv := newChatServer(t, http.StatusOK,
		`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Parking was hard to find."},"finish_reason":"stop"}]}`,
		&got)
	svc := newTestLLM(t, srv)

	reply, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "Use the reviews."},
		{Role: driven.RoleUser, Content: "How was parking?"},
	}, driven.ChatOptions{Temperature: 0.5})

	require.NoError(t, err)
	assert.Equal(t, "Parking was hard to find.", reply)
	assert.Equal(t, DefaultLLMModel, got["model"])
	assert.InDelta(t, 0.5, got["temperature"], 1e-6)

	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	first, _ := messages[0].(map[string]any)
	assert.Equal(t, "system", first["role"])
}

func TestLLMService_Chat_NoChoices(t *testing.T) {
	srv := newChatServer(t, http.StatusOK, `{"id":"1","object":"chat.completion","choices":[]}`, nil)

	_, err := newTestLLM(t, srv).Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "hi"}}, driven.ChatOptions{})

	assert.ErrorContains(t, err, "no response choices")
}

func TestLLMService_Chat_APIError(t *testing.T) {
	srv := newChatServer(t, http.StatusUnauthorized, `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`, nil)

	_, err := newTestLLM(t, srv).Chat(context.Background(), []driven.ChatMessage{{Role: "user", Content: "hi"}}, driven.ChatOptions{})

	assert.ErrorContains(t, err, "invalid api key")
}

func TestTemperature(t *testing.T) {
	assert.Equal(t, float32(math.SmallestNonzeroFloat32), temperature(0))
	assert.Equal(t, float32(0.7), temperature(0.7))
}

func TestLLMService_PingAndModel(t *testing.T) {
	svc := newTestLLM(t, newChatServer(t, http.StatusOK, `{}`, nil))

	assert.NoError(t, svc.Ping(context.Background()))
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
	assert.NoError(t, svc.Close())
}

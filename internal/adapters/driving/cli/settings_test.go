package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSettingsCmd_Show(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	configPath = "/home/user/.reviewrag/config.toml"

	out, err := execute(t, nil, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Config file: /home/user/.reviewrag/config.toml")
	assert.Contains(t, out, "[Embedding]")
	assert.Contains(t, out, "Model: text-embedding-004")
	assert.Contains(t, out, "Model: gemini-2.5-flash")
	assert.Contains(t, out, "Batch size: 20")
	assert.Contains(t, out, "Batch wait: 30s")
	assert.Contains(t, out, "Top K: 10")
	assert.Contains(t, out, "Backend: sqlite")
	assert.Contains(t, out, "API Key: test...1234")
}

func TestSettingsCmd_ChatDisabledAndNoKey(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	mocks.settings.settings.Chat.Provider = ""
	mocks.settings.keyErr = domain.ErrMissingCredential

	out, err := execute(t, nil, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Provider: (disabled)")
	assert.Contains(t, out, "API Key: (not set)")
}

func TestSettingsCmd_InvalidConfig(t *testing.T) {
	mocks, cleanup := setupTestServices()
	defer cleanup()
	mocks.settings.err = domain.ErrInvalidInput

	_, err := execute(t, nil, "settings")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

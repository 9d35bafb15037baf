package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

func TestParseSamples_Wrapped(t *testing.T) {
	data := []byte(`
samples:
  - question: "What did patients say about parking?"
    expected_keywords: [parking, lot]
  - question: Were the nurses kind?
    expected_keywords:
      - nurse
      - kind
`)

	samples, err := ParseSamples(data)

	require.NoError(t, err)
	assert.Equal(t, []domain.EvaluationSample{
		{Question: "What did patients say about parking?", ExpectedKeywords: []string{"parking", "lot"}},
		{Question: "Were the nurses kind?", ExpectedKeywords: []string{"nurse", "kind"}},
	}, samples)
}

func TestParseSamples_BareList(t *testing.T) {
	data := []byte(`
- question: "  How was discharge?  "
  expected_keywords: [discharge]
`)

	samples, err := ParseSamples(data)

	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "How was discharge?", samples[0].Question)
}

func TestParseSamples_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", domain.ErrEmptyInput},
		{"comment only", "# nothing here\n", domain.ErrEmptyInput},
		{"no samples", "samples: []\n", domain.ErrEmptyInput},
		{"scalar", "just text\n", domain.ErrInvalidInput},
		{"bad yaml", "samples: [\n", domain.ErrInvalidInput},
		{"missing question", "- expected_keywords: [a]\n", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSamples([]byte(tt.data))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- question: q\n  expected_keywords: [k]\n"), 0600))

	samples, err := LoadSamples(path)

	require.NoError(t, err)
	assert.Len(t, samples, 1)
}

func TestLoadSamples_Missing(t *testing.T) {
	_, err := LoadSamples(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}

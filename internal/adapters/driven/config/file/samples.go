package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// samplesFile is the wrapped form of an evaluation samples file.
type samplesFile struct {
	Samples []domain.EvaluationSample `yaml:"samples"`
}

// LoadSamples reads evaluation samples from a YAML file.
// The file may hold a bare list of samples or a mapping with a "samples" key:
//
//	samples:
//	  - question: What did patients say about parking?
//	    expected_keywords: [parking, lot]
func LoadSamples(path string) ([]domain.EvaluationSample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: samples file %s", domain.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("read samples: %w", err)
	}
	return ParseSamples(data)
}

// ParseSamples decodes evaluation samples from YAML.
func ParseSamples(data []byte) ([]domain.EvaluationSample, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse samples: %w", domain.ErrInvalidInput, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: samples file is empty", domain.ErrEmptyInput)
	}

	var samples []domain.EvaluationSample
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&samples); err != nil {
			return nil, fmt.Errorf("%w: parse samples: %w", domain.ErrInvalidInput, err)
		}
	case yaml.MappingNode:
		var wrapped samplesFile
		if err := root.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("%w: parse samples: %w", domain.ErrInvalidInput, err)
		}
		samples = wrapped.Samples
	default:
		return nil, fmt.Errorf("%w: samples must be a list or a mapping with a samples key", domain.ErrInvalidInput)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no samples defined", domain.ErrEmptyInput)
	}
	for i := range samples {
		samples[i].Question = strings.TrimSpace(samples[i].Question)
		if samples[i].Question == "" {
			return nil, fmt.Errorf("%w: sample %d has no question", domain.ErrInvalidInput, i+1)
		}
	}
	return samples, nil
}

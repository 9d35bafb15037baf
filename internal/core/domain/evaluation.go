package domain

import (
	"math"
	"slices"
	"strings"
)

// EvaluationSample is a question and the keywords a good retrieval should surface.
type EvaluationSample struct {
	// Question is the query text.
	Question string `yaml:"question" json:"question"`

	// ExpectedKeywords are matched case-insensitively as substrings of the retrieved text.
	ExpectedKeywords []string `yaml:"expected_keywords" json:"expected_keywords"`
}

// EvaluationResult is the score for one sample.
type EvaluationResult struct {
	Question           string   `json:"question"`
	Keywords           []string `json:"keywords"`
	HitRate            float64  `json:"hit_rate"`
	DocumentsRetrieved int      `json:"documents_retrieved"`
}

// EvaluationSummary aggregates hit rates across samples.
type EvaluationSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// EvaluationReport is the full output of an evaluation run.
type EvaluationReport struct {
	K       int                `json:"k"`
	Results []EvaluationResult `json:"results"`
	Summary EvaluationSummary  `json:"summary"`
}

// SweepPoint is the mean hit rate observed at one k.
type SweepPoint struct {
	K           int     `json:"k"`
	MeanHitRate float64 `json:"mean_hit_rate"`
}

// DefaultEvaluationSamples returns the built-in retrieval checks.
func DefaultEvaluationSamples() []EvaluationSample {
	return []EvaluationSample{
		{
			Question:         "Has anyone complained about communication with the hospital staff?",
			ExpectedKeywords: []string{"communication", "staff", "coordination", "nursing"},
		},
		{
			Question:         "What did patients say about the discharge process?",
			ExpectedKeywords: []string{"discharge", "process", "seamless", "released"},
		},
		{
			Question:         "Were there any positive experiences mentioned?",
			ExpectedKeywords: []string{"positive", "great", "excellent", "wonderful"},
		},
		{
			Question:         "What are common complaints about the facilities?",
			ExpectedKeywords: []string{"facilities", "parking", "room", "equipment"},
		},
	}
}

// KeywordHitRate returns the fraction of keywords found in the lower-cased
// concatenation of texts, rounded to 2 decimal places.
// An empty keyword list scores 0.
func KeywordHitRate(texts []string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	corpus := strings.ToLower(strings.Join(texts, " "))
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(corpus, strings.ToLower(kw)) {
			hits++
		}
	}
	return Round2(float64(hits) / float64(len(keywords)))
}

// Summarise computes mean, median, min and max over hit rates.
// It returns the zero summary for an empty input.
func Summarise(rates []float64) EvaluationSummary {
	if len(rates) == 0 {
		return EvaluationSummary{}
	}

	sorted := slices.Clone(rates)
	slices.Sort(sorted)

	var sum float64
	for _, r := range sorted {
		sum += r
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return EvaluationSummary{
		Mean:   sum / float64(n),
		Median: median,
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}

// Round2 rounds to 2 decimal places, halves to even.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

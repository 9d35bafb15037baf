package domain

import (
	"math"
	"sort"
)

// CosineSimilarity returns the cosine of the angle between a and b, in [-1, 1].
// Mismatched dimensions and zero vectors score -1 so they rank last.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return -1
	}

	var dot, normA, normB float64
	for i := range a {
		ai, bi := float64(a[i]), float64(b[i])
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}
	if normA == 0 || normB == 0 {
		return -1
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim))
}

// RankTopK sorts scored documents closest first and keeps at most k.
// Equal scores are ordered by record id so results are deterministic.
func RankTopK(docs []ScoredDocument, k int) []ScoredDocument {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Similarity != docs[j].Similarity {
			return docs[i].Similarity > docs[j].Similarity
		}
		return docs[i].Document.RecordID < docs[j].Document.RecordID
	})
	if k >= 0 && len(docs) > k {
		docs = docs[:k]
	}
	return docs
}

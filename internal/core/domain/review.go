package domain

// ReviewRecord is one row of the raw review source.
// It is immutable once loaded.
type ReviewRecord struct {
	// ID is the 0-based row number in the source, excluding the header.
	// It is the record's stable identity across builds.
	ID int

	// Text is the full review text taken from the designated column.
	Text string

	// Metadata holds every other column of the row, keyed by header name.
	Metadata map[string]string
}

// EmbeddedDocument is a ReviewRecord paired with its embedding vector.
// It is owned by the vector index once added.
type EmbeddedDocument struct {
	// ID is the storage id assigned when the document is added to the index.
	ID string

	// RecordID links back to the ReviewRecord this document was built from.
	RecordID int

	// Text is the review text.
	Text string

	// Metadata is copied from the source record.
	Metadata map[string]string

	// Embedding is the vector produced by the embedding gateway.
	Embedding []float32
}

// ScoredDocument is a retrieval result.
type ScoredDocument struct {
	// Document is the matched document.
	Document EmbeddedDocument

	// Similarity is the cosine similarity to the query, higher is closer.
	Similarity float64
}

// Answer is a generated response grounded on retrieved reviews.
type Answer struct {
	// Question is the user question as asked.
	Question string

	// Text is the model's answer.
	Text string

	// Sources are the reviews that were passed to the model as context.
	Sources []ScoredDocument
}

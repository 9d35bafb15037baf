// Package domain defines the core business entities for reviewrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ReviewRecord: One row of the raw review source
//   - Batch: A contiguous slice of records ingested as one unit
//   - EmbeddedDocument: A record paired with its vector and storage id
//   - IndexState: The lifecycle of the vector index
//   - EvaluationSample: A question with the keywords retrieval should surface
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

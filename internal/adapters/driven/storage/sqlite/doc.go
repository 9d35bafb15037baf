// Package sqlite provides the default persisted vector index.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements driven.VectorStore and
// driven.VectorIndex over a single database file inside the index directory.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files,
// and every applied version is recorded in schema_migrations.
//
// # Data Location
//
// The database is stored at <index.path>/index.db. Creating with recreate
// removes the whole directory first.
//
// # Build State
//
// index_meta records whether the index is still building or has been persisted.
// Open treats an unfinished build as no index, so callers rebuild from scratch.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite

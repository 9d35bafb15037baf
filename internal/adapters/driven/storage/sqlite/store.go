package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
)

// Ensure VectorStore and Index implement the interfaces.
var (
	_ driven.VectorStore = (*VectorStore)(nil)
	_ driven.VectorIndex = (*Index)(nil)
)

// dbFileName is the database file inside the index directory.
const dbFileName = "index.db"

// Index metadata keys and values.
const (
	metaState      = "state"
	metaDimensions = "dimensions"
	statePersisted = "persisted"
	stateBuilding  = "building"
)

// VectorStore creates and opens the SQLite index under a directory.
type VectorStore struct {
	dir string
}

// NewVectorStore creates a store rooted at dir. The directory is created on first Create.
func NewVectorStore(dir string) *VectorStore {
	return &VectorStore{dir: dir}
}

// Path returns the index directory.
func (s *VectorStore) Path() string {
	return s.dir
}

func (s *VectorStore) dbPath() string {
	return filepath.Join(s.dir, dbFileName)
}

func (s *VectorStore) exists() (bool, error) {
	_, err := os.Stat(s.dbPath())
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("sqlite: stat index: %w", err)
}

// Create starts a new index holding docs.
// With recreate the whole index directory is removed first.
func (s *VectorStore) Create(ctx context.Context, docs []domain.EmbeddedDocument, recreate bool) (driven.VectorIndex, error) {
	if recreate {
		// Anything under the directory goes, including another backend's files
		if err := os.RemoveAll(s.dir); err != nil {
			return nil, fmt.Errorf("sqlite: removing index directory: %w", err)
		}
	} else {
		exists, err := s.exists()
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexExists, s.dir)
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return nil, fmt.Errorf("sqlite: creating index directory: %w", err)
	}

	index, err := openIndex(s.dbPath())
	if err != nil {
		return nil, err
	}
	if err := index.setMeta(ctx, metaState, stateBuilding); err != nil {
		index.Close()
		return nil, err
	}
	if err := index.Append(ctx, docs); err != nil {
		index.Close()
		return nil, err
	}
	return index, nil
}

// Open loads a persisted index. It returns (nil, nil) when the directory
// holds no index or only an unfinished build.
func (s *VectorStore) Open(ctx context.Context) (driven.VectorIndex, error) {
	exists, err := s.exists()
	if err != nil || !exists {
		return nil, err
	}

	index, err := openIndex(s.dbPath())
	if err != nil {
		return nil, err
	}

	state, err := index.meta(ctx, metaState)
	if err != nil {
		index.Close()
		return nil, err
	}
	if state != statePersisted {
		index.Close()
		return nil, nil
	}
	return index, nil
}

// Index is an open SQLite vector index.
// Search is brute-force cosine over an in-memory copy of the rows,
// loaded on first search and dropped on every append.
type Index struct {
	db   *sql.DB
	path string

	mu     sync.RWMutex
	cache  []domain.EmbeddedDocument
	loaded bool
}

func openIndex(dbPath string) (*Index, error) {
	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	index := &Index{db: db, path: dbPath}

	// Run migrations
	if err := index.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return index, nil
}

// migrate runs all pending migrations and records each applied version.
func (i *Index) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := i.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := i.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_vector_index.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := i.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// Append stores docs in one transaction. Documents with an existing id are replaced.
func (i *Index) Append(ctx context.Context, docs []domain.EmbeddedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, record_id, content, metadata, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			record_id = excluded.record_id,
			content = excluded.content,
			metadata = excluded.metadata,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("sqlite: preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("sqlite: marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, doc.ID, doc.RecordID, doc.Text,
			string(metadataJSON), float32SliceToBytes(doc.Embedding)); err != nil {
			return fmt.Errorf("sqlite: saving document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}

	if dims := len(docs[0].Embedding); dims > 0 {
		if err := i.setMeta(ctx, metaDimensions, strconv.Itoa(dims)); err != nil {
			return err
		}
	}

	i.mu.Lock()
	i.cache, i.loaded = nil, false
	i.mu.Unlock()
	return nil
}

// Persist marks the index complete and checkpoints the WAL into the main file.
func (i *Index) Persist(ctx context.Context) error {
	if err := i.setMeta(ctx, metaState, statePersisted); err != nil {
		return err
	}
	if _, err := i.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("sqlite: checkpoint: %w", err)
	}
	return nil
}

// Search returns up to k documents closest to query by cosine similarity.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]domain.ScoredDocument, error) {
	docs, err := i.documents(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 || k <= 0 {
		return []domain.ScoredDocument{}, nil
	}

	results := make([]domain.ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		results = append(results, domain.ScoredDocument{
			Document:   doc,
			Similarity: domain.CosineSimilarity(query, doc.Embedding),
		})
	}
	return domain.RankTopK(results, k), nil
}

// documents returns the cached rows, loading them if needed.
func (i *Index) documents(ctx context.Context) ([]domain.EmbeddedDocument, error) {
	i.mu.RLock()
	if i.loaded {
		docs := i.cache
		i.mu.RUnlock()
		return docs, nil
	}
	i.mu.RUnlock()

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.loaded {
		return i.cache, nil
	}

	rows, err := i.db.QueryContext(ctx, `
		SELECT id, record_id, content, metadata, embedding
		FROM documents ORDER BY record_id, id
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.EmbeddedDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating documents: %w", err)
	}

	i.cache, i.loaded = docs, true
	return docs, nil
}

// Count returns the number of stored documents.
func (i *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: counting documents: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}

func (i *Index) setMeta(ctx context.Context, key, value string) error {
	_, err := i.db.ExecContext(ctx, `
		INSERT INTO index_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("sqlite: saving %s: %w", key, err)
	}
	return nil
}

// meta returns the value for key, or "" when unset.
func (i *Index) meta(ctx context.Context, key string) (string, error) {
	var value string
	err := i.db.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: reading %s: %w", key, err)
	}
	return value, nil
}

// scanDocument scans a single document row.
func scanDocument(rows *sql.Rows) (*domain.EmbeddedDocument, error) {
	var doc domain.EmbeddedDocument
	var metadataJSON sql.NullString
	var embeddingBlob []byte

	if err := rows.Scan(&doc.ID, &doc.RecordID, &doc.Text, &metadataJSON, &embeddingBlob); err != nil {
		return nil, fmt.Errorf("sqlite: scanning document: %w", err)
	}

	doc.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON.Valid && metadataJSON.String != "" && metadataJSON.String != "null" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("sqlite: unmarshalling metadata: %w", err)
		}
	}
	return &doc, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

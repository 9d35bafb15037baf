// Package badger provides a vector index persisted in a BadgerDB directory.
//
// Each document is stored msgpack-encoded under "doc:<id>". The build state
// lives under "meta:state"; Open ignores directories whose build never finished.
package badger

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driven"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/logger"
)

// Ensure VectorStore and Index implement the interfaces.
var (
	_ driven.VectorStore = (*VectorStore)(nil)
	_ driven.VectorIndex = (*Index)(nil)
)

var (
	docPrefix = []byte("doc:")
	stateKey  = []byte("meta:state")
)

const (
	statePersisted = "persisted"
	stateBuilding  = "building"

	// manifestFile marks a directory badger has written to.
	manifestFile = "MANIFEST"
)

// record is the on-disk form of an embedded document.
type record struct {
	ID        string            `msgpack:"id"`
	RecordID  int               `msgpack:"record_id"`
	Text      string            `msgpack:"text"`
	Metadata  map[string]string `msgpack:"metadata,omitempty"`
	Embedding []float32         `msgpack:"embedding"`
}

// VectorStore creates and opens a badger index in a directory.
type VectorStore struct {
	dir string
}

// NewVectorStore creates a store rooted at dir.
func NewVectorStore(dir string) *VectorStore {
	return &VectorStore{dir: dir}
}

// Path returns the index directory.
func (s *VectorStore) Path() string {
	return s.dir
}

func (s *VectorStore) exists() (bool, error) {
	_, err := os.Stat(filepath.Join(s.dir, manifestFile))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("badger: stat index: %w", err)
}

// Create starts a new index holding docs.
func (s *VectorStore) Create(ctx context.Context, docs []domain.EmbeddedDocument, recreate bool) (driven.VectorIndex, error) {
	if recreate {
		// Anything under the directory goes, including another backend's files
		if err := os.RemoveAll(s.dir); err != nil {
			return nil, fmt.Errorf("badger: removing index directory: %w", err)
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
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return nil, fmt.Errorf("badger: creating index directory: %w", err)
	}

	index, err := openIndex(s.dir)
	if err != nil {
		return nil, err
	}
	if err := index.setState(stateBuilding); err != nil {
		index.Close()
		return nil, err
	}
	if err := index.Append(ctx, docs); err != nil {
		index.Close()
		return nil, err
	}
	return index, nil
}

// Open loads a persisted index, or returns (nil, nil) if there is none.
func (s *VectorStore) Open(_ context.Context) (driven.VectorIndex, error) {
	exists, err := s.exists()
	if err != nil || !exists {
		return nil, err
	}

	index, err := openIndex(s.dir)
	if err != nil {
		return nil, err
	}

	state, err := index.state()
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

// Index is an open badger vector index with brute-force cosine search.
type Index struct {
	db *badgerdb.DB

	mu     sync.RWMutex
	cache  []domain.EmbeddedDocument
	loaded bool
}

func openIndex(dir string) (*Index, error) {
	db, err := badgerdb.Open(badgerdb.DefaultOptions(dir).WithLogger(quietLogger{}))
	if err != nil {
		return nil, fmt.Errorf("badger: opening database: %w", err)
	}
	return &Index{db: db}, nil
}

// Append writes docs in one write batch.
func (i *Index) Append(_ context.Context, docs []domain.EmbeddedDocument) error {
	if len(docs) == 0 {
		return nil
	}

	wb := i.db.NewWriteBatch()
	defer wb.Cancel()
	for _, doc := range docs {
		data, err := msgpack.Marshal(record{
			ID:        doc.ID,
			RecordID:  doc.RecordID,
			Text:      doc.Text,
			Metadata:  doc.Metadata,
			Embedding: doc.Embedding,
		})
		if err != nil {
			return fmt.Errorf("badger: encoding document %s: %w", doc.ID, err)
		}
		if err := wb.Set(docKey(doc.ID), data); err != nil {
			return fmt.Errorf("badger: writing document %s: %w", doc.ID, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("badger: flushing batch: %w", err)
	}

	i.mu.Lock()
	i.cache, i.loaded = nil, false
	i.mu.Unlock()
	return nil
}

// Persist marks the index complete and syncs it to disk.
func (i *Index) Persist(_ context.Context) error {
	if err := i.setState(statePersisted); err != nil {
		return err
	}
	if err := i.db.Sync(); err != nil {
		return fmt.Errorf("badger: sync: %w", err)
	}
	return nil
}

// Search returns up to k documents closest to query.
func (i *Index) Search(_ context.Context, query []float32, k int) ([]domain.ScoredDocument, error) {
	docs, err := i.documents()
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

// Count returns the number of documents.
func (i *Index) Count(_ context.Context) (int, error) {
	docs, err := i.documents()
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Close closes the database.
func (i *Index) Close() error {
	return i.db.Close()
}

func (i *Index) documents() ([]domain.EmbeddedDocument, error) {
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

	var docs []domain.EmbeddedDocument
	err := i.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = docPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(docPrefix); it.ValidForPrefix(docPrefix); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var r record
			if err := msgpack.Unmarshal(val, &r); err != nil {
				return fmt.Errorf("decoding %s: %w", it.Item().Key(), err)
			}
			docs = append(docs, domain.EmbeddedDocument{
				ID:        r.ID,
				RecordID:  r.RecordID,
				Text:      r.Text,
				Metadata:  r.Metadata,
				Embedding: r.Embedding,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger: reading documents: %w", err)
	}

	i.cache, i.loaded = docs, true
	return docs, nil
}

func (i *Index) setState(state string) error {
	err := i.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(stateKey, []byte(state))
	})
	if err != nil {
		return fmt.Errorf("badger: saving state: %w", err)
	}
	return nil
}

func (i *Index) state() (string, error) {
	var state string
	err := i.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(stateKey)
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		state = string(val)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("badger: reading state: %w", err)
	}
	return state, nil
}

func docKey(id string) []byte {
	return append(append([]byte(nil), docPrefix...), id...)
}

// quietLogger routes badger warnings and errors through the application
// logger and drops its info and debug chatter.
type quietLogger struct{}

func (quietLogger) Errorf(f string, v ...interface{}) {
	logger.Error("badger: %s", strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (quietLogger) Warningf(f string, v ...interface{}) {
	logger.Warn("badger: %s", strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (quietLogger) Infof(string, ...interface{})  {}
func (quietLogger) Debugf(string, ...interface{}) {}

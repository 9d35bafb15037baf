package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// setupTestStore creates a vector store in a temporary directory.
func setupTestStore(t *testing.T) *VectorStore {
	t.Helper()
	return NewVectorStore(filepath.Join(t.TempDir(), "index"))
}

func testDocs() []domain.EmbeddedDocument {
	return []domain.EmbeddedDocument{
		{ID: "d1", RecordID: 0, Text: "parking was terrible", Metadata: map[string]string{"hospital_id": "7"}, Embedding: []float32{1, 0, 0}},
		{ID: "d2", RecordID: 1, Text: "nurses were kind", Embedding: []float32{0, 1, 0}},
	}
}

func TestVectorStore_OpenMissing(t *testing.T) {
	store := setupTestStore(t)

	index, err := store.Open(context.Background())
	require.NoError(t, err)
	assert.Nil(t, index)

	// Open must not create anything on disk
	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestVectorStore_CreatePersistReopen(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	index, err := store.Create(ctx, testDocs(), false)
	require.NoError(t, err)
	require.NoError(t, index.Append(ctx, []domain.EmbeddedDocument{
		{ID: "d3", RecordID: 2, Text: "room was clean", Embedding: []float32{0, 0, 1}},
	}))
	require.NoError(t, index.Persist(ctx))
	require.NoError(t, index.Close())

	reopened, err := store.Open(ctx)
	require.NoError(t, err)
	require.NotNil(t, reopened)
	defer reopened.Close()

	n, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	results, err := reopened.Search(ctx, []float32{0.9, 0.1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "d1", results[0].Document.ID)
	assert.Equal(t, 0, results[0].Document.RecordID)
	assert.Equal(t, "parking was terrible", results[0].Document.Text)
	assert.Equal(t, "7", results[0].Document.Metadata["hospital_id"])
	assert.Equal(t, []float32{1, 0, 0}, results[0].Document.Embedding)
}

func TestVectorStore_OpenUnfinishedBuild(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	index, err := store.Create(ctx, testDocs(), false)
	require.NoError(t, err)
	require.NoError(t, index.Close())

	reopened, err := store.Open(ctx)
	require.NoError(t, err)
	assert.Nil(t, reopened)
}

func TestVectorStore_CreateExistingWithoutRecreate(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	index, err := store.Create(ctx, testDocs(), false)
	require.NoError(t, err)
	require.NoError(t, index.Persist(ctx))
	require.NoError(t, index.Close())

	_, err = store.Create(ctx, testDocs(), false)
	assert.ErrorIs(t, err, domain.ErrIndexExists)
}

func TestVectorStore_RecreateRemovesOldIndex(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	index, err := store.Create(ctx, testDocs(), false)
	require.NoError(t, err)
	require.NoError(t, index.Persist(ctx))
	require.NoError(t, index.Close())

	stray := filepath.Join(store.Path(), "stray.txt")
	require.NoError(t, os.WriteFile(stray, []byte("x"), 0600))

	index, err = store.Create(ctx, testDocs()[:1], true)
	require.NoError(t, err)
	defer index.Close()

	n, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(stray)
	assert.True(t, os.IsNotExist(err))
}

func TestVectorStore_RecreateRemovesForeignContents(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	// A badger index left behind after switching backends
	require.NoError(t, os.MkdirAll(store.Path(), 0700))
	leftover := filepath.Join(store.Path(), "MANIFEST")
	require.NoError(t, os.WriteFile(leftover, []byte("badger"), 0600))

	index, err := store.Create(ctx, testDocs(), true)
	require.NoError(t, err)
	defer index.Close()

	_, err = os.Stat(leftover)
	assert.True(t, os.IsNotExist(err))
}

func TestIndex_SearchSeesAppends(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	index, err := store.Create(ctx, testDocs(), false)
	require.NoError(t, err)
	defer index.Close()

	results, err := index.Search(ctx, []float32{0, 0, 1}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	require.NoError(t, index.Append(ctx, []domain.EmbeddedDocument{
		{ID: "d3", RecordID: 2, Text: "room was clean", Embedding: []float32{0, 0, 1}},
	}))

	results, err = index.Search(ctx, []float32{0, 0, 1}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "d3", results[0].Document.ID)
}

func TestIndex_AppendUpsertsByID(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	index, err := store.Create(ctx, testDocs(), false)
	require.NoError(t, err)
	defer index.Close()

	require.NoError(t, index.Append(ctx, []domain.EmbeddedDocument{
		{ID: "d1", RecordID: 0, Text: "updated", Embedding: []float32{1, 0, 0}},
	}))

	n, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIndex_SearchEmpty(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	index, err := store.Create(ctx, nil, false)
	require.NoError(t, err)
	defer index.Close()

	results, err := index.Search(ctx, []float32{1}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMigrate_RecordsVersion(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	created, err := store.Create(ctx, nil, false)
	require.NoError(t, err)
	index := created.(*Index)
	defer index.Close()

	var version int
	require.NoError(t, index.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	// Running again is a no-op
	require.NoError(t, index.migrate(migrations.FS))
	var count int
	require.NoError(t, index.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestFloat32Bytes_RoundTrip(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3.4028235e38}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documind-labs/documind-cli/internal/core/domain"
	"github.com/documind-labs/documind-cli/internal/core/ports/driven"
)

func vecEntry(id, docID string, embedding []float32) driven.VectorEntry {
	return driven.VectorEntry{
		ID:        id,
		Embedding: embedding,
		Content:   "content of " + id,
		Metadata:  map[string]string{"doc_id": docID, "chunk_id": id},
	}
}

func TestVectorIndex_AddAndQuery(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	idx := store.VectorIndex()

	require.NoError(t, idx.Add(ctx, "alice", []driven.VectorEntry{
		vecEntry("a_chunk_0", "a", []float32{1, 0}),
		vecEntry("a_chunk_1", "a", []float32{0, 1}),
	}))

	hits, err := idx.Query(ctx, "alice", []float32{1, 0}, 10, nil)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a_chunk_0", hits[0].ID)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-6)
	assert.Equal(t, "a_chunk_1", hits[1].ID)
	assert.InDelta(t, 1.0, hits[1].Distance, 1e-6)
	assert.Equal(t, "content of a_chunk_0", hits[0].Content)
	assert.Equal(t, "a", hits[0].Metadata["doc_id"])
}

func TestVectorIndex_PersistsAcrossReopen(t *testing.T) {
	store, cleanup := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.VectorIndex().Add(ctx, "alice", []driven.VectorEntry{
		vecEntry("a_chunk_0", "a", []float32{1, 0}),
	}))

	dataDir := store.Path()[:len(store.Path())-len("/documind.db")]
	require.NoError(t, store.Close())

	reopened, err := NewStore(dataDir)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
		cleanup()
	}()

	hits, err := reopened.VectorIndex().Query(ctx, "alice", []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a_chunk_0", hits[0].ID)
}

func TestVectorIndex_TiesKeepInsertionOrder(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	idx := store.VectorIndex()
	require.NoError(t, idx.Add(ctx, "alice", []driven.VectorEntry{
		vecEntry("first", "a", []float32{1, 1}),
		vecEntry("second", "a", []float32{1, 1}),
		vecEntry("third", "a", []float32{1, 1}),
	}))

	hits, err := idx.Query(ctx, "alice", []float32{1, 0}, 3, nil)

	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "first", hits[0].ID)
	assert.Equal(t, "second", hits[1].ID)
	assert.Equal(t, "third", hits[2].ID)
}

func TestVectorIndex_OwnerIsolation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	idx := store.VectorIndex()
	require.NoError(t, idx.Add(ctx, "alice", []driven.VectorEntry{vecEntry("a1", "a", []float32{1, 0})}))
	require.NoError(t, idx.Add(ctx, "bob", []driven.VectorEntry{vecEntry("b1", "b", []float32{1, 0})}))

	hits, err := idx.Query(ctx, "alice", []float32{1, 0}, 10, nil)

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a1", hits[0].ID)
}

func TestVectorIndex_DocIDFilter(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	idx := store.VectorIndex()
	require.NoError(t, idx.Add(ctx, "alice", []driven.VectorEntry{
		vecEntry("a1", "a", []float32{1, 0}),
		vecEntry("b1", "b", []float32{1, 0}),
	}))

	hits, err := idx.Query(ctx, "alice", []float32{1, 0}, 10, &driven.VectorFilter{
		DocIDs: []string{"b"},
	})

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b1", hits[0].ID)
}

func TestVectorIndex_DuplicateIDIsAtomic(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	idx := store.VectorIndex()
	require.NoError(t, idx.Add(ctx, "alice", []driven.VectorEntry{vecEntry("a1", "a", []float32{1, 0})}))

	err := idx.Add(ctx, "alice", []driven.VectorEntry{
		vecEntry("a2", "a", []float32{0, 1}),
		vecEntry("a1", "a", []float32{1, 1}),
	})

	require.ErrorIs(t, err, domain.ErrDuplicateID)

	count, err := idx.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVectorIndex_DimensionMismatchIsAtomic(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	idx := store.VectorIndex()
	require.NoError(t, idx.Add(ctx, "alice", []driven.VectorEntry{vecEntry("a1", "a", []float32{1, 0})}))

	err := idx.Add(ctx, "alice", []driven.VectorEntry{
		vecEntry("a2", "a", []float32{0, 1}),
		vecEntry("a3", "a", []float32{0, 1, 2}),
	})

	require.ErrorIs(t, err, domain.ErrDimensionMismatch)

	count, err := idx.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVectorIndex_SameIDDifferentOwners(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	idx := store.VectorIndex()
	require.NoError(t, idx.Add(ctx, "alice", []driven.VectorEntry{vecEntry("shared", "a", []float32{1, 0})}))
	require.NoError(t, idx.Add(ctx, "bob", []driven.VectorEntry{vecEntry("shared", "b", []float32{1, 0})}))
}

func TestVectorIndex_DeleteByDocID(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	idx := store.VectorIndex()
	require.NoError(t, idx.Add(ctx, "alice", []driven.VectorEntry{
		vecEntry("a1", "a", []float32{1, 0}),
		vecEntry("a2", "a", []float32{0, 1}),
		vecEntry("b1", "b", []float32{1, 1}),
	}))

	require.NoError(t, idx.Delete(ctx, "alice", &driven.VectorFilter{DocIDs: []string{"a"}}))

	count, err := idx.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVectorIndex_DeleteByMetadata(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	tagged := vecEntry("a1", "a", []float32{1, 0})
	tagged.Metadata["lang"] = "go"

	idx := store.VectorIndex()
	require.NoError(t, idx.Add(ctx, "alice", []driven.VectorEntry{
		tagged,
		vecEntry("a2", "a", []float32{0, 1}),
	}))

	require.NoError(t, idx.Delete(ctx, "alice", &driven.VectorFilter{
		Metadata: map[string]string{"lang": "go"},
	}))

	count, err := idx.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVectorIndex_DeleteNilFilterClearsNamespace(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	idx := store.VectorIndex()
	require.NoError(t, idx.Add(ctx, "alice", []driven.VectorEntry{vecEntry("a1", "a", []float32{1, 0})}))
	require.NoError(t, idx.Add(ctx, "bob", []driven.VectorEntry{vecEntry("b1", "b", []float32{1, 0})}))

	require.NoError(t, idx.Delete(ctx, "alice", nil))

	aliceCount, err := idx.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, aliceCount)

	bobCount, err := idx.Count(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, bobCount, "other namespaces untouched")
}

func TestVectorIndex_QueryUnknownOwner(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	hits, err := store.VectorIndex().Query(context.Background(), "nobody", []float32{1, 0}, 10, nil)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

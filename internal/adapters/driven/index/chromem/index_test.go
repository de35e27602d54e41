package chromem

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()

	index, err := NewIndex(filepath.Join(t.TempDir(), "chromem"))
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	return index
}

func entry(chunkID, documentID string, position int, embedding []float32) driven.IndexEntry {
	return driven.IndexEntry{
		ChunkID:    chunkID,
		DocumentID: documentID,
		Position:   position,
		Content:    "content of " + chunkID,
		Embedding:  embedding,
	}
}

func TestIndex_UpsertAndQuery(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, []driven.IndexEntry{
		entry("c1", "doc-a", 0, []float32{1, 0, 0}),
		entry("c2", "doc-a", 1, []float32{0, 1, 0}),
	}))

	hits, err := index.Query(ctx, []float32{1, 0, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	assert.Equal(t, "c1", hits[0].Entry.ChunkID)
	assert.Equal(t, "doc-a", hits[0].Entry.DocumentID)
	assert.Equal(t, 0, hits[0].Entry.Position)
	assert.Equal(t, "content of c1", hits[0].Entry.Content)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-5)
}

func TestIndex_QueryClampsToCollectionSize(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, []driven.IndexEntry{
		entry("c1", "doc-a", 0, []float32{1, 0, 0}),
	}))

	hits, err := index.Query(ctx, []float32{1, 0, 0}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestIndex_QueryEmpty(t *testing.T) {
	index := newTestIndex(t)

	hits, err := index.Query(context.Background(), []float32{1, 0, 0}, 4, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_UpsertReplaces(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, []driven.IndexEntry{
		entry("c1", "doc-a", 0, []float32{1, 0, 0}),
	}))
	replacement := entry("c1", "doc-a", 0, []float32{0, 1, 0})
	replacement.Content = "revised"
	require.NoError(t, index.Upsert(ctx, []driven.IndexEntry{replacement}))

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hits, err := index.Query(ctx, []float32{0, 1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "revised", hits[0].Entry.Content)
}

func TestIndex_DocumentFilterAndDelete(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, []driven.IndexEntry{
		entry("a1", "doc-a", 0, []float32{1, 0, 0}),
		entry("b1", "doc-b", 0, []float32{1, 0, 0}),
	}))

	hits, err := index.Query(ctx, []float32{1, 0, 0}, 1, &driven.QueryFilter{DocumentID: "doc-b"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "b1", hits[0].Entry.ChunkID)

	require.NoError(t, index.DeleteDocument(ctx, "doc-a"))

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIndex_PersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "chromem")
	ctx := context.Background()

	index, err := NewIndex(dir)
	require.NoError(t, err)
	require.NoError(t, index.Upsert(ctx, []driven.IndexEntry{
		entry("c1", "doc-a", 0, []float32{1, 0, 0}),
	}))
	require.NoError(t, index.Close())

	reopened, err := NewIndex(dir)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

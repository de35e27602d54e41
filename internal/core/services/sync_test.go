package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driving"
)

func newTestSyncer(store *fakeBlobStore) (*Syncer, *memIndex, *memRegistry) {
	pipeline, index, registry := newTestPipeline(newFakeEmbedding())
	syncer := NewSyncer(store, pipeline, registry, domain.OriginAzureBlob)
	return syncer, index, registry
}

func TestSync_IngestsAllRemoteDocuments(t *testing.T) {
	store := newFakeBlobStore()
	require.NoError(t, store.Put(context.Background(), "Annual Report.pdf", pdfDoc("annual report content for sync")))
	require.NoError(t, store.Put(context.Background(), "handbook.pdf", pdfDoc("employee handbook content")))

	syncer, index, registry := newTestSyncer(store)

	results, err := syncer.Sync(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, result := range results {
		assert.NoError(t, result.Err)
		assert.False(t, result.Skipped)
		assert.Greater(t, result.ChunksIndexed, 0)
	}
	assert.Equal(t, "annual-report.pdf", results[0].DocumentID)
	assert.Equal(t, "handbook.pdf", results[1].DocumentID)

	docs, err := registry.List(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, doc := range docs {
		assert.Equal(t, domain.OriginAzureBlob, doc.Origin)
	}
	assert.Greater(t, index.count(), 0)
}

func TestSync_SecondRunSkipsRegistered(t *testing.T) {
	store := newFakeBlobStore()
	require.NoError(t, store.Put(context.Background(), "report.pdf", pdfDoc("report content")))

	syncer, index, _ := newTestSyncer(store)

	_, err := syncer.Sync(context.Background(), false)
	require.NoError(t, err)
	indexed := index.count()

	results, err := syncer.Sync(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.True(t, results[0].Skipped)
	assert.Equal(t, 0, results[0].ChunksIndexed)
	assert.Equal(t, indexed, index.count(), "skipped sync must not touch the index")
}

func TestSync_ForceReingests(t *testing.T) {
	store := newFakeBlobStore()
	require.NoError(t, store.Put(context.Background(), "report.pdf", pdfDoc("report content")))

	syncer, index, _ := newTestSyncer(store)

	_, err := syncer.Sync(context.Background(), false)
	require.NoError(t, err)

	results, err := syncer.Sync(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.False(t, results[0].Skipped)
	assert.Greater(t, results[0].ChunksIndexed, 0)
	assert.Equal(t, 2, index.upserts)
}

func TestSync_BadDocumentDoesNotAbortBatch(t *testing.T) {
	store := newFakeBlobStore()
	require.NoError(t, store.Put(context.Background(), "good.pdf", pdfDoc("good document content")))
	require.NoError(t, store.Put(context.Background(), "notes.txt", []byte("unsupported plain text")))

	syncer, _, registry := newTestSyncer(store)

	results, err := syncer.Sync(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byName := make(map[string]driving.SyncResult)
	for _, result := range results {
		byName[result.Name] = result
	}

	assert.NoError(t, byName["good.pdf"].Err)
	assert.ErrorIs(t, byName["notes.txt"].Err, domain.ErrUnsupportedFormat)

	exists, err := registry.Exists(context.Background(), "good.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSync_FetchFailureRecorded(t *testing.T) {
	store := newFakeBlobStore()
	require.NoError(t, store.Put(context.Background(), "good.pdf", pdfDoc("good document content")))
	require.NoError(t, store.Put(context.Background(), "broken.pdf", pdfDoc("unreachable")))
	store.fetchErr["broken.pdf"] = errors.New("connection reset")

	syncer, _, _ := newTestSyncer(store)

	results, err := syncer.Sync(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byName := make(map[string]driving.SyncResult)
	for _, result := range results {
		byName[result.Name] = result
	}

	assert.Error(t, byName["broken.pdf"].Err)
	assert.NoError(t, byName["good.pdf"].Err)
}

func TestSync_ListFailureAborts(t *testing.T) {
	pipeline, _, registry := newTestPipeline(newFakeEmbedding())
	syncer := NewSyncer(&failingStore{}, pipeline, registry, domain.OriginAzureFiles)

	_, err := syncer.Sync(context.Background(), false)
	assert.Error(t, err)
}

type failingStore struct{}

func (f *failingStore) List(context.Context) ([]driven.BlobInfo, error) {
	return nil, errors.New("listing unavailable")
}

func (f *failingStore) Fetch(context.Context, string) ([]byte, error) {
	return nil, errors.New("unavailable")
}

func (f *failingStore) Put(context.Context, string, []byte) error {
	return errors.New("unavailable")
}

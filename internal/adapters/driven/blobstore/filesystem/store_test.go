package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
)

func TestStore_ListSkipsDirectoriesAndHiddenFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("%PDF"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	store, err := NewStore(dir)
	require.NoError(t, err)

	blobs, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, "report.pdf", blobs[0].Name)
	assert.Equal(t, int64(4), blobs[0].Size)
}

func TestStore_PutAndFetch(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "deck.pptx", []byte("slides")))

	data, err := store.Fetch(ctx, "deck.pptx")
	require.NoError(t, err)
	assert.Equal(t, []byte("slides"), data)
}

func TestStore_FetchMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Fetch(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_RejectsPathTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Fetch(ctx, "../escape.pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.Put(ctx, "a/b.pdf", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "incoming")

	store, err := NewStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

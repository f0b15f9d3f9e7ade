package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scratchEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestDownload(t *testing.T) {
	ctx := context.Background()
	store, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)
	scratch := t.TempDir()

	key := "media/global/abc-123/original.png"
	require.NoError(t, store.Put(ctx, key, strings.NewReader("png-bytes"), -1, "image/png"))

	path, err := Download(ctx, store, key, scratch)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".png"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Len(t, scratchEntries(t, scratch), 1)
}

func TestDownload_NotFoundLeavesNoScratch(t *testing.T) {
	store, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)
	scratch := t.TempDir()

	_, err = Download(context.Background(), store, "media/user/nope/original.png", scratch)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, scratchEntries(t, scratch))
}

type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(io.MultiReader(strings.NewReader("partial"), errReader{})), nil
}

func (failingStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return errors.New("read only")
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestDownload_ReadErrorRemovesScratch(t *testing.T) {
	scratch := t.TempDir()

	_, err := Download(context.Background(), failingStore{}, "media/global/x/original.png", scratch)
	assert.ErrorContains(t, err, "connection reset")
	assert.Empty(t, scratchEntries(t, scratch))
}

func TestUpload(t *testing.T) {
	ctx := context.Background()
	store, err := NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)

	local := t.TempDir() + "/out.png"
	require.NoError(t, os.WriteFile(local, []byte("corrected"), 0644))

	key := "media/user/def-456/resized.png"
	require.NoError(t, store.Put(ctx, key, strings.NewReader("stale"), -1, "image/png"))
	require.NoError(t, Upload(ctx, store, key, local))

	rc, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "corrected", string(data))
}

func TestUpload_StoreError(t *testing.T) {
	local := t.TempDir() + "/out.png"
	require.NoError(t, os.WriteFile(local, []byte("corrected"), 0644))

	err := Upload(context.Background(), failingStore{}, "media/user/def-456/resized.png", local)
	assert.ErrorContains(t, err, "read only")
}

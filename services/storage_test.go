package services

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalStorage(t *testing.T) {
	storage := NewLocalStorage(t.TempDir())
	ctx := context.Background()

	content := []byte("code;libelle\nV1234567;Le Buizin")
	key := filepath.Join("snapshots", "stations_test.csv")

	t.Run("upload and read back", func(t *testing.T) {
		result, err := storage.UploadReader(ctx, bytes.NewReader(content), key, "text/csv", int64(len(content)))
		assert.NoError(t, err)
		assert.Equal(t, key, result.Key)
		assert.Equal(t, int64(len(content)), result.FileSize)

		reader, contentType, err := storage.Get(ctx, key)
		assert.NoError(t, err)
		defer reader.Close()

		assert.Equal(t, "text/csv", contentType)
		got, err := io.ReadAll(reader)
		assert.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("delete", func(t *testing.T) {
		assert.NoError(t, storage.Delete(ctx, key))

		_, _, err := storage.Get(ctx, key)
		assert.Error(t, err)

		// Deleting a missing key is not an error
		assert.NoError(t, storage.Delete(ctx, key))
	})

	t.Run("always configured", func(t *testing.T) {
		assert.True(t, storage.IsConfigured())
	})
}

func TestSnapshotKey(t *testing.T) {
	ts := time.Date(2024, 3, 15, 6, 30, 0, 0, time.UTC)
	key := SnapshotKey(ts)
	assert.Equal(t, filepath.Join("snapshots", "stations_20240315_063000.xlsx"), key)
}

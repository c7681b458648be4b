package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminpainel/users-api-go/internal/testutils"
	"github.com/adminpainel/users-api-go/pkg/storage"
)

func TestExtensionForContentType(t *testing.T) {
	assert.Equal(t, "jpg", storage.ExtensionForContentType("image/jpeg"))
	assert.Equal(t, "png", storage.ExtensionForContentType("image/png"))
	assert.Equal(t, "gif", storage.ExtensionForContentType("image/gif"))
	assert.Equal(t, "bin", storage.ExtensionForContentType("application/octet-stream"))
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("put generates unique keys", func(t *testing.T) {
		store := storage.NewMemoryStorage()

		key1, err := store.Put(ctx, []byte("a"), "image/png")
		require.NoError(t, err)
		key2, err := store.Put(ctx, []byte("b"), "image/png")
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
		assert.True(t, strings.HasPrefix(key1, "profile_photos/"))
		assert.True(t, strings.HasSuffix(key1, ".png"))
		assert.Equal(t, 2, store.Len())
	})

	t.Run("exists and delete", func(t *testing.T) {
		store := storage.NewMemoryStorage()

		key, err := store.Put(ctx, []byte("img"), "image/jpeg")
		require.NoError(t, err)

		exists, err := store.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)

		removed, err := store.Delete(ctx, key)
		require.NoError(t, err)
		assert.True(t, removed)

		exists, err = store.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)

		// Remoção repetida não é erro
		removed, err = store.Delete(ctx, key)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) (*storage.LocalStorage, string) {
		dir := t.TempDir()
		store, err := storage.NewLocalStorage(dir, testutils.TestLogger(t))
		require.NoError(t, err)
		return store, dir
	}

	t.Run("put writes the file under the base dir", func(t *testing.T) {
		store, dir := newStore(t)

		key, err := store.Put(ctx, []byte("png-bytes"), "image/png")
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), data)
	})

	t.Run("exists and delete", func(t *testing.T) {
		store, _ := newStore(t)

		key, err := store.Put(ctx, []byte("img"), "image/gif")
		require.NoError(t, err)

		exists, err := store.Exists(ctx, key)
		require.NoError(t, err)
		assert.True(t, exists)

		removed, err := store.Delete(ctx, key)
		require.NoError(t, err)
		assert.True(t, removed)

		exists, err = store.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists)

		removed, err = store.Delete(ctx, key)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("rejects keys escaping the base dir", func(t *testing.T) {
		store, _ := newStore(t)

		for _, key := range []string{"../fora.txt", "/etc/passwd", "profile_photos/../../fora.txt"} {
			_, err := store.Exists(ctx, key)
			assert.Error(t, err, "chave %q deveria ser rejeitada", key)

			_, err = store.Delete(ctx, key)
			assert.Error(t, err, "chave %q deveria ser rejeitada", key)
		}
	})

	t.Run("ping fails when the base dir is gone", func(t *testing.T) {
		store, dir := newStore(t)
		require.NoError(t, store.Ping(ctx))

		require.NoError(t, os.RemoveAll(dir))
		assert.Error(t, store.Ping(ctx))
	})
}

package testutil

import (
	"context"
	"testing"

	"github.com/hupe1980/vecstore/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBlobStoreContract exercises the behavior every blobstore.BlobStore must
// provide. strictDelete asserts that deleting a missing blob reports
// blobstore.ErrNotFound; object stores with idempotent deletes pass false.
func RunBlobStoreContract(t *testing.T, store blobstore.BlobStore, strictDelete bool) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		_, err := store.Get(ctx, "missing.json")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("PutGetReplace", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "docs.json", []byte(`{"vectors":{}}`)))
		data, err := store.Get(ctx, "docs.json")
		require.NoError(t, err)
		assert.Equal(t, `{"vectors":{}}`, string(data))

		require.NoError(t, store.Put(ctx, "docs.json", []byte("v2")))
		data, err = store.Get(ctx, "docs.json")
		require.NoError(t, err)
		assert.Equal(t, "v2", string(data))
	})

	t.Run("EmptyBlob", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "empty.json", nil))
		data, err := store.Get(ctx, "empty.json")
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "alpha.json", []byte("a")))
		require.NoError(t, store.Put(ctx, "beta.json", []byte("b")))

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Subset(t, names, []string{"alpha.json", "beta.json", "docs.json", "empty.json"})
		assert.IsNonDecreasing(t, names)

		names, err = store.List(ctx, "al")
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha.json"}, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "alpha.json"))
		_, err := store.Get(ctx, "alpha.json")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)

		err = store.Delete(ctx, "alpha.json")
		if strictDelete {
			assert.ErrorIs(t, err, blobstore.ErrNotFound)
		} else {
			assert.NoError(t, err)
		}
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, store.Put(cctx, "late.json", []byte("x")), context.Canceled)
	})
}

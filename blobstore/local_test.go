package blobstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/vecstore/blobstore"
	"github.com/hupe1980/vecstore/internal/fs"
	"github.com/hupe1980/vecstore/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Contract(t *testing.T) {
	store, err := blobstore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	testutil.RunBlobStoreContract(t, store, true)
}

func TestLocalStore_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "data")
	store, err := blobstore.NewLocalStore(root)
	require.NoError(t, err)
	assert.Equal(t, root, store.Root())

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalStore_PutIsAtomic(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	ffs := fs.NewFaultyFS(nil)
	store, err := blobstore.NewLocalStore(root, blobstore.WithFileSystem(ffs))
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "docs.json", []byte("old")))

	for name, fault := range map[string]fs.Fault{
		"Write":  {FailAfterBytes: 1},
		"Sync":   {FailAfterBytes: -1, FailOnSync: true},
		"Rename": {FailAfterBytes: -1, FailOnRename: true},
	} {
		t.Run(name, func(t *testing.T) {
			ffs.ClearRules()
			ffs.AddRule("docs.json", fault)

			err := store.Put(ctx, "docs.json", []byte("new content"))
			require.ErrorIs(t, err, fs.ErrInjected)

			ffs.ClearRules()
			data, err := store.Get(ctx, "docs.json")
			require.NoError(t, err)
			assert.Equal(t, "old", string(data))

			// The temp file is cleaned up.
			entries, err := os.ReadDir(root)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "docs.json", entries[0].Name())
		})
	}
}

func TestLocalStore_ListSkipsTempAndDirs(t *testing.T) {
	root := t.TempDir()
	store, err := blobstore.NewLocalStore(root)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".docs.json.tmp-123"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(root, "subdir"), 0o755))
	require.NoError(t, store.Put(context.Background(), "docs.json", []byte("{}")))

	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs.json"}, names)
}

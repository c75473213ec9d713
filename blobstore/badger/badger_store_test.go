package badger

import (
	"context"
	"testing"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/hupe1980/vecstore/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	store, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	defer store.Close()

	testutil.RunBlobStoreContract(t, store, true)
}

func TestStore_OnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(Options{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "docs.json", []byte("persisted")))
	require.NoError(t, store.Close())

	store, err = Open(Options{Dir: dir})
	require.NoError(t, err)
	defer store.Close()

	data, err := store.Get(ctx, "docs.json")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(data))
}

func TestStore_SharedDBPrefix(t *testing.T) {
	ctx := context.Background()

	db, err := badgerdb.Open(badgerdb.DefaultOptions("").WithInMemory(true).WithLogger(defaultLogger{}))
	require.NoError(t, err)
	defer db.Close()

	a := NewStore(db, "tenant-a/")
	b := NewStore(db, "tenant-b/")

	require.NoError(t, a.Put(ctx, "docs.json", []byte("a")))
	require.NoError(t, b.Put(ctx, "docs.json", []byte("b")))
	require.NoError(t, b.Put(ctx, "notes.json", []byte("b2")))

	names, err := a.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs.json"}, names)

	names, err = b.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs.json", "notes.json"}, names)

	// Closing a non-owning store leaves the DB open.
	require.NoError(t, a.Close())
	data, err := b.Get(ctx, "notes.json")
	require.NoError(t, err)
	assert.Equal(t, "b2", string(data))
}

func TestOpen_RequiresDir(t *testing.T) {
	_, err := Open(Options{})
	assert.Error(t, err)
}

package vecstore

import (
	"context"
	"testing"

	"github.com/hupe1980/vecstore/blobstore"
	"github.com/hupe1980/vecstore/codec"
	"github.com/hupe1980/vecstore/metadata"
	"github.com/hupe1980/vecstore/persistence"
	"github.com/hupe1980/vecstore/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManagerRequiresStorage(t *testing.T) {
	_, err := NewManager("")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, m.ListCollections())
}

func TestManagerCreateGetDelete(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	m, err := NewManager("", WithBlobStore(store))
	require.NoError(t, err)

	c, err := m.CreateCollection(ctx, "docs")
	require.NoError(t, err)
	assert.Equal(t, "docs", c.Name())

	// An empty collection is persisted on creation.
	_, err = store.Get(ctx, c.BlobName())
	require.NoError(t, err)

	_, err = m.CreateCollection(ctx, "docs")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = m.CreateCollection(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	got, ok := m.GetCollection("docs")
	require.True(t, ok)
	assert.Same(t, c, got)

	_, err = m.Collection("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := m.DeleteCollection(ctx, "docs")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, ok = m.GetCollection("docs")
	assert.False(t, ok)
	_, err = store.Get(ctx, c.BlobName())
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	deleted, err = m.DeleteCollection(ctx, "docs")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestManagerListAndInfo(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager("", WithBlobStore(blobstore.NewMemoryStore()))
	require.NoError(t, err)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := m.CreateCollection(ctx, name)
		require.NoError(t, err)
	}

	c, err := m.Collection("mid")
	require.NoError(t, err)
	_, err = c.Insert(ctx, []float32{1, 2}, "", nil)
	require.NoError(t, err)

	infos := m.ListCollections()
	require.Len(t, infos, 3)
	assert.Equal(t, "alpha", infos[0].Name)
	assert.Equal(t, "mid", infos[1].Name)
	assert.Equal(t, "zeta", infos[2].Name)

	info, err := m.CollectionInfo("mid")
	require.NoError(t, err)
	assert.Equal(t, CollectionInfo{Name: "mid", VectorCount: 1, Dimension: 2}, info)

	_, err = m.CollectionInfo("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerSaveAllLoadAll(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	opts := []Option{
		WithCodec(codec.MsgPack{}),
		WithCompression(persistence.CompressionZstd),
		WithResourceController(resource.NewController(resource.Config{MaxWorkers: 2})),
	}

	m, err := NewManager(dir, opts...)
	require.NoError(t, err)

	ids := map[string]string{}
	for _, name := range []string{"a", "b", "c"} {
		c, err := m.CreateCollection(ctx, name)
		require.NoError(t, err)
		id, err := c.Insert(ctx, []float32{1, 0, 0}, name, metadata.Document{"name": metadata.String(name)})
		require.NoError(t, err)
		ids[name] = id
	}
	_, err = m.CreateCollection(ctx, "empty")
	require.NoError(t, err)

	require.NoError(t, m.Close(ctx))

	reopened, err := NewManager(dir, opts...)
	require.NoError(t, err)
	require.NoError(t, reopened.LoadAll(ctx))

	infos := reopened.ListCollections()
	require.Len(t, infos, 4)
	assert.Equal(t, CollectionInfo{Name: "empty"}, infos[3])

	for name, id := range ids {
		c, err := reopened.Collection(name)
		require.NoError(t, err)

		got, err := c.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, name, got.Text)

		results, err := c.Search(ctx, SearchRequest{Vector: []float32{1, 0, 0}, K: DefaultK})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, id, results[0].ID)
	}
}

func TestManagerLoadAllSkipsBadBlobs(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	m, err := NewManager("", WithBlobStore(store))
	require.NoError(t, err)
	c, err := m.CreateCollection(ctx, "good")
	require.NoError(t, err)
	_, err = c.Insert(ctx, []float32{1, 2}, "", nil)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "broken.json", []byte("not a collection")))
	require.NoError(t, store.Put(ctx, "mixed.json", []byte(`{"vectors":{"a":{"id":"a","vector":[1,2]},"b":{"id":"b","vector":[1]}}}`)))
	require.NoError(t, store.Put(ctx, "notes.txt", []byte("ignored")))

	fresh, err := NewManager("", WithBlobStore(store))
	require.NoError(t, err)
	require.NoError(t, fresh.LoadAll(ctx))

	infos := fresh.ListCollections()
	require.Len(t, infos, 1)
	assert.Equal(t, CollectionInfo{Name: "good", VectorCount: 1, Dimension: 2}, infos[0])
}

func TestManagerLoadAllReplacesRegistered(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	m, err := NewManager("", WithBlobStore(store))
	require.NoError(t, err)
	c, err := m.CreateCollection(ctx, "docs")
	require.NoError(t, err)

	other, err := NewManager("", WithBlobStore(store))
	require.NoError(t, err)
	require.NoError(t, other.LoadAll(ctx))
	oc, err := other.Collection("docs")
	require.NoError(t, err)
	_, err = oc.Insert(ctx, []float32{1}, "", nil)
	require.NoError(t, err)

	require.NoError(t, m.LoadAll(ctx))
	reloaded, err := m.Collection("docs")
	require.NoError(t, err)
	assert.NotSame(t, c, reloaded)
	assert.Equal(t, 1, reloaded.Len())
}

func TestManagerConcurrentRegistry(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager("", WithBlobStore(blobstore.NewMemoryStore()))
	require.NoError(t, err)

	busy, err := m.CreateCollection(ctx, "busy")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_, _ = busy.Insert(ctx, []float32{float32(i), 1}, "", nil)
		}
	}()

	for i := 0; i < 20; i++ {
		name := "tmp" + string(rune('a'+i))
		_, err := m.CreateCollection(ctx, name)
		require.NoError(t, err)
		_ = m.ListCollections()
		deleted, err := m.DeleteCollection(ctx, name)
		require.NoError(t, err)
		require.True(t, deleted)
	}
	<-done

	assert.Equal(t, 50, busy.Len())
	require.Len(t, m.ListCollections(), 1)
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"docs", "a", "my-coll_1.v2"} {
		assert.NoError(t, ValidateName(name), name)
	}
	for _, name := range []string{"", "-lead", ".hidden", "has space", "../escape", string(make([]byte, 200))} {
		assert.ErrorIs(t, ValidateName(name), ErrInvalidArgument, name)
	}
}

package vecstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/vecstore/blobstore"
	"github.com/hupe1980/vecstore/internal/vectorstore"
	"github.com/hupe1980/vecstore/metadata"
	"github.com/hupe1980/vecstore/model"
	"github.com/hupe1980/vecstore/persistence"
)

// Collection is a named set of vectors of one dimension, kept in memory and
// written through to a blob store on every mutation.
//
// Writers (insert, update, delete, load) hold the write lock for the whole
// operation including persistence; Get and Search share the read lock.
type Collection struct {
	name string
	opts *options
	log  *Logger

	mu         sync.RWMutex
	entries    map[string]*model.Entry
	dimension  int // 0 while empty
	cache      *vectorstore.Dense
	cacheValid bool
	cacheBytes int64
}

// CollectionInfo summarizes a collection.
type CollectionInfo struct {
	Name        string `json:"name"`
	VectorCount int    `json:"vector_count"`
	Dimension   int    `json:"dimension"`
}

// InsertRequest is one item of InsertBatch.
type InsertRequest struct {
	Vector   []float32
	Text     string
	Metadata metadata.Document
}

// UpdateRequest holds the replacement fields of Update. A nil field is left
// unchanged; a non-nil Metadata replaces the whole document.
type UpdateRequest struct {
	Vector   []float32
	Metadata metadata.Document
}

// NewCollection creates an empty, unregistered collection. Without
// WithBlobStore it persists to an in-memory store.
func NewCollection(name string, optFns ...Option) (*Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty collection name", ErrInvalidArgument)
	}
	o := applyOptions(optFns)
	if o.blobStore == nil {
		o.blobStore = blobstore.NewMemoryStore()
	}
	return newCollection(name, o), nil
}

func newCollection(name string, o *options) *Collection {
	return &Collection{
		name:       name,
		opts:       o,
		log:        o.logger.WithCollection(name),
		entries:    make(map[string]*model.Entry),
		cache:      vectorstore.NewDense(0, 0),
		cacheValid: true,
	}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// BlobName returns the name of the blob the collection is stored in.
func (c *Collection) BlobName() string { return c.opts.format.BlobName(c.name) }

// Len returns the number of stored vectors.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Dimension returns the vector dimension, or 0 while the collection is empty.
func (c *Collection) Dimension() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dimension
}

// IDs returns all vector ids in ascending order.
func (c *Collection) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Info returns the name, size and dimension of the collection.
func (c *Collection) Info() CollectionInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CollectionInfo{
		Name:        c.name,
		VectorCount: len(c.entries),
		Dimension:   c.dimension,
	}
}

// Insert stores a new vector and returns its generated id.
//
// If persisting fails the vector stays inserted in memory and both the id
// and an ErrIO error are returned.
func (c *Collection) Insert(ctx context.Context, vector []float32, text string, meta metadata.Document) (string, error) {
	start := time.Now()
	id, err := c.insert(ctx, vector, text, meta)
	err = translateError(err)
	c.opts.metricsCollector.RecordInsert(time.Since(start), err)
	c.log.LogInsert(ctx, id, len(vector), err)
	return id, err
}

func (c *Collection) insert(ctx context.Context, vector []float32, text string, meta metadata.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkVector(c.dimension, vector); err != nil {
		return "", err
	}
	if err := checkMetadata(meta); err != nil {
		return "", err
	}

	e := newEntry(vector, text, meta)
	c.putLocked(e)
	return e.ID, c.persistLocked(ctx)
}

// InsertBatch validates all items, inserts them and persists once. Nothing
// is inserted if any item is invalid.
func (c *Collection) InsertBatch(ctx context.Context, items []InsertRequest) ([]string, error) {
	start := time.Now()
	ids, err := c.insertBatch(ctx, items)
	err = translateError(err)

	failed := 0
	if ids == nil && err != nil {
		failed = len(items)
	}
	c.opts.metricsCollector.RecordBatchInsert(len(items), failed, time.Since(start))
	c.log.LogBatchInsert(ctx, len(items), err)
	return ids, err
}

func (c *Collection) insertBatch(ctx context.Context, items []InsertRequest) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []string{}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	dim := c.dimension
	for i, it := range items {
		if err := c.checkVector(dim, it.Vector); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if err := checkMetadata(it.Metadata); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		dim = len(it.Vector)
	}

	ids := make([]string, len(items))
	for i, it := range items {
		e := newEntry(it.Vector, it.Text, it.Metadata)
		c.putLocked(e)
		ids[i] = e.ID
	}
	return ids, c.persistLocked(ctx)
}

// Get returns a copy of the entry stored under id.
func (c *Collection) Get(ctx context.Context, id string) (model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return model.Entry{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok {
		return model.Entry{}, fmt.Errorf("%w: vector %q in collection %q", ErrNotFound, id, c.name)
	}
	return e.Clone(), nil
}

// Delete removes id. It returns false, and does not persist, if id is unknown.
func (c *Collection) Delete(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	found, err := c.delete(ctx, id)
	err = translateError(err)
	c.opts.metricsCollector.RecordDelete(time.Since(start), err)
	c.log.LogDelete(ctx, id, found, err)
	return found, err
}

func (c *Collection) delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.removeLocked(id) {
		return false, nil
	}
	return true, c.persistLocked(ctx)
}

// DeleteBatch removes every known id and persists once if anything was
// removed. It returns the number of removed vectors.
func (c *Collection) DeleteBatch(ctx context.Context, ids []string) (int, error) {
	start := time.Now()
	n, err := c.deleteBatch(ctx, ids)
	err = translateError(err)
	c.opts.metricsCollector.RecordDelete(time.Since(start), err)
	if err != nil {
		c.log.ErrorContext(ctx, "batch delete failed", "count", len(ids), "error", err)
	} else {
		c.log.DebugContext(ctx, "batch delete completed", "requested", len(ids), "removed", n)
	}
	return n, err
}

func (c *Collection) deleteBatch(ctx context.Context, ids []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if c.removeLocked(id) {
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, c.persistLocked(ctx)
}

// Update replaces the provided fields of id. It returns false if id is
// unknown. A found entry is persisted even when no field was provided.
func (c *Collection) Update(ctx context.Context, id string, req UpdateRequest) (bool, error) {
	start := time.Now()
	found, err := c.update(ctx, id, req)
	err = translateError(err)
	c.opts.metricsCollector.RecordUpdate(time.Since(start), err)
	c.log.LogUpdate(ctx, id, found, err)
	return found, err
}

func (c *Collection) update(ctx context.Context, id string, req UpdateRequest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return false, nil
	}

	if req.Vector != nil {
		if err := c.checkVector(c.dimension, req.Vector); err != nil {
			return false, err
		}
	}
	if err := checkMetadata(req.Metadata); err != nil {
		return false, err
	}

	if req.Vector != nil {
		e.Vector = slices.Clone(req.Vector)
		if c.cacheValid {
			if ok, err := c.cache.Set(id, e.Vector); !ok || err != nil {
				c.invalidateLocked()
			}
		}
	}
	if req.Metadata != nil {
		e.Metadata = req.Metadata.Clone()
	}

	return true, c.persistLocked(ctx)
}

// Upsert stores vector under the caller-supplied id, replacing the text,
// metadata and vector of an existing entry. It reports whether the id was
// newly created.
func (c *Collection) Upsert(ctx context.Context, id string, vector []float32, text string, meta metadata.Document) (bool, error) {
	start := time.Now()
	created, err := c.upsert(ctx, id, vector, text, meta)
	err = translateError(err)
	if created {
		c.opts.metricsCollector.RecordInsert(time.Since(start), err)
		c.log.LogInsert(ctx, id, len(vector), err)
	} else {
		c.opts.metricsCollector.RecordUpdate(time.Since(start), err)
		c.log.LogUpdate(ctx, id, err == nil || errors.Is(err, ErrIO), err)
	}
	return created, err
}

func (c *Collection) upsert(ctx context.Context, id string, vector []float32, text string, meta metadata.Document) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if id == "" {
		return false, fmt.Errorf("%w: empty id", ErrInvalidArgument)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkVector(c.dimension, vector); err != nil {
		return false, err
	}
	if err := checkMetadata(meta); err != nil {
		return false, err
	}

	e, ok := c.entries[id]
	if !ok {
		e = newEntry(vector, text, meta)
		e.ID = id
		c.putLocked(e)
		return true, c.persistLocked(ctx)
	}

	e.Vector = slices.Clone(vector)
	e.Text = text
	e.Metadata = meta.Clone()
	if c.cacheValid {
		if ok, err := c.cache.Set(id, e.Vector); !ok || err != nil {
			c.invalidateLocked()
		}
	}
	return false, c.persistLocked(ctx)
}

// Save writes the collection to the blob store.
func (c *Collection) Save(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return translateError(c.persistLocked(ctx))
}

// Load replaces the in-memory entries with the stored blob and invalidates
// the search cache. The write lock is held from the read to the swap. A
// missing blob yields ErrNotFound, an unreadable one ErrIO.
func (c *Collection) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	blob := c.BlobName()
	snap, err := c.read(ctx, blob)
	if err != nil {
		c.log.LogLoad(ctx, blob, 0, err)
		return err
	}

	c.entries = snap.Vectors
	c.dimension = snap.Dimension()
	c.invalidateLocked()

	c.log.LogLoad(ctx, blob, len(snap.Vectors), nil)
	return nil
}

func (c *Collection) read(ctx context.Context, blob string) (*persistence.Snapshot, error) {
	data, err := c.opts.blobStore.Get(ctx, blob)
	if err != nil {
		if translated := translateError(err); translated != err {
			return nil, fmt.Errorf("collection %q: %w", c.name, translated)
		}
		return nil, ioError("read", c.name, err)
	}
	if err := c.opts.resources.AcquireIO(ctx, len(data)); err != nil {
		return nil, err
	}

	snap, err := c.opts.format.Decode(data)
	if err != nil {
		return nil, ioError("decode", c.name, err)
	}
	return snap, nil
}

// persistLocked encodes and writes the whole collection. The caller holds
// c.mu (read or write).
func (c *Collection) persistLocked(ctx context.Context) error {
	start := time.Now()
	blob := c.BlobName()

	data, err := c.opts.format.Encode(persistence.NewSnapshot(c.entries))
	if err == nil {
		err = c.opts.resources.AcquireIO(ctx, len(data))
	}
	if err == nil {
		err = c.opts.blobStore.Put(ctx, blob, data)
	}
	if err != nil {
		err = ioError("persist", c.name, err)
	}

	c.opts.metricsCollector.RecordPersist(len(data), time.Since(start), err)
	c.log.LogPersist(ctx, blob, len(data), err)
	return err
}

func (c *Collection) checkVector(dim int, v []float32) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty vector", ErrInvalidArgument)
	}
	if dim != 0 && len(v) != dim {
		return &ErrDimensionMismatch{Expected: dim, Actual: len(v)}
	}
	for i, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return fmt.Errorf("%w: vector component %d is not finite", ErrInvalidArgument, i)
		}
	}
	return nil
}

func checkMetadata(meta metadata.Document) error {
	if err := meta.Validate(); err != nil {
		return fmt.Errorf("%w: metadata %w", ErrInvalidArgument, err)
	}
	return nil
}

func newEntry(vector []float32, text string, meta metadata.Document) *model.Entry {
	return &model.Entry{
		ID:       model.NewID(),
		Vector:   slices.Clone(vector),
		Text:     text,
		Metadata: meta.Clone(),
	}
}

func (c *Collection) putLocked(e *model.Entry) {
	c.entries[e.ID] = e
	if c.dimension == 0 {
		c.dimension = len(e.Vector)
	}
	if c.cacheValid {
		if err := c.cache.Append(e.ID, e.Vector); err != nil {
			c.invalidateLocked()
			return
		}
		c.admitCacheLocked()
	}
}

func (c *Collection) removeLocked(id string) bool {
	if _, ok := c.entries[id]; !ok {
		return false
	}
	delete(c.entries, id)
	if len(c.entries) == 0 {
		c.dimension = 0
	}
	if c.cacheValid && !c.cache.Remove(id) {
		c.invalidateLocked()
	}
	return true
}

// invalidateLocked drops the cache and returns its memory.
func (c *Collection) invalidateLocked() {
	c.cacheValid = false
	c.cache = vectorstore.NewDense(0, 0)
	c.trackCacheLocked(true)
}

// rebuildCacheLocked rebuilds the dense cache from entries in ascending id
// order. The caller holds the write lock. A cache needed for a search is
// admitted even above the memory limit.
func (c *Collection) rebuildCacheLocked() error {
	ids := make([]string, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	c.cache = vectorstore.NewDense(c.dimension, len(ids))
	for _, id := range ids {
		if err := c.cache.Append(id, c.entries[id].Vector); err != nil {
			c.invalidateLocked()
			return fmt.Errorf("%w: rebuild cache of collection %q: %w", ErrIO, c.name, err)
		}
	}
	c.cacheValid = true
	if !c.trackCacheLocked(false) {
		c.log.Warn("search cache exceeds memory limit", "bytes", c.cache.SizeBytes())
		c.trackCacheLocked(true)
	}

	c.log.WithDimension(c.dimension).Debug("search cache rebuilt", "rows", len(ids))
	return nil
}

// admitCacheLocked accounts for incremental cache growth. Past the memory
// limit the cache is dropped; the next search rebuilds it.
func (c *Collection) admitCacheLocked() {
	if c.trackCacheLocked(false) {
		return
	}
	c.log.Warn("memory limit reached, dropping search cache", "rows", c.cache.Len())
	c.invalidateLocked()
}

// trackCacheLocked reports cache growth or shrinkage to the resource
// controller. Unless force is set, growth beyond the memory limit is
// refused and false is returned with the accounting unchanged.
func (c *Collection) trackCacheLocked(force bool) bool {
	size := c.cache.SizeBytes()
	switch delta := size - c.cacheBytes; {
	case delta > 0 && force:
		c.opts.resources.AcquireMemory(delta)
	case delta > 0:
		if !c.opts.resources.TryAcquireMemory(delta) {
			return false
		}
	default:
		c.opts.resources.ReleaseMemory(-delta)
	}
	c.cacheBytes = size
	return true
}

// release returns the cache memory of a dropped collection.
func (c *Collection) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidateLocked()
}

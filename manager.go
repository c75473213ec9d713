package vecstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/hupe1980/vecstore/blobstore"
	"golang.org/x/sync/errgroup"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// ValidateName reports whether name is a safe collection name: 1 to 128
// letters, digits, '_', '-' or '.', not starting with a separator. The
// Manager itself only rejects empty names; callers that accept names from
// users should validate them first.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: invalid collection name %q", ErrInvalidArgument, name)
	}
	return nil
}

// Manager is the registry of named collections sharing one blob store.
// Construct one per process and pass it to callers.
type Manager struct {
	opts *options

	mu          sync.RWMutex
	collections map[string]*Collection
}

// NewManager creates a manager storing collections under dataDir, which is
// created if missing. dataDir is ignored when WithBlobStore is given.
func NewManager(dataDir string, optFns ...Option) (*Manager, error) {
	o := applyOptions(optFns)

	if o.blobStore == nil {
		if dataDir == "" {
			return nil, fmt.Errorf("%w: data directory required without a blob store", ErrInvalidArgument)
		}
		store, err := blobstore.NewLocalStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		o.blobStore = store
	}

	o.logger.Debug("manager created", "format", o.format.String())

	return &Manager{
		opts:        o,
		collections: make(map[string]*Collection),
	}, nil
}

// CreateCollection persists an empty collection and registers it.
// An existing name yields ErrConflict.
func (m *Manager) CreateCollection(ctx context.Context, name string) (*Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty collection name", ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[name]; ok {
		return nil, fmt.Errorf("%w: collection %q", ErrConflict, name)
	}

	c := newCollection(name, m.opts)
	if err := c.Save(ctx); err != nil {
		return nil, err
	}
	m.collections[name] = c

	m.opts.logger.InfoContext(ctx, "collection created", "collection", name)
	return c, nil
}

// GetCollection returns the registered collection.
func (m *Manager) GetCollection(name string) (*Collection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[name]
	return c, ok
}

// Collection is GetCollection with ErrNotFound for unknown names.
func (m *Manager) Collection(name string) (*Collection, error) {
	c, ok := m.GetCollection(name)
	if !ok {
		return nil, fmt.Errorf("%w: collection %q", ErrNotFound, name)
	}
	return c, nil
}

// DeleteCollection unregisters name and removes its blob. It returns false
// if the name is unknown. Failing to remove the blob is logged, not
// returned.
func (m *Manager) DeleteCollection(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	c, ok := m.collections[name]
	if ok {
		delete(m.collections, name)
	}
	m.mu.Unlock()

	if !ok {
		return false, nil
	}

	c.release()

	blob := c.BlobName()
	if err := m.opts.blobStore.Delete(ctx, blob); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		m.opts.logger.WarnContext(ctx, "failed to remove collection blob", "collection", name, "blob", blob, "error", err)
	}

	m.opts.logger.InfoContext(ctx, "collection deleted", "collection", name)
	return true, nil
}

// ListCollections returns the info of every collection, sorted by name.
func (m *Manager) ListCollections() []CollectionInfo {
	m.mu.RLock()
	cols := make([]*Collection, 0, len(m.collections))
	for _, c := range m.collections {
		cols = append(cols, c)
	}
	m.mu.RUnlock()

	infos := make([]CollectionInfo, len(cols))
	for i, c := range cols {
		infos[i] = c.Info()
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// CollectionInfo returns the info of one collection.
func (m *Manager) CollectionInfo(name string) (CollectionInfo, error) {
	c, err := m.Collection(name)
	if err != nil {
		return CollectionInfo{}, err
	}
	return c.Info(), nil
}

// LoadAll loads every blob of the configured format concurrently and
// registers the collections, replacing registered ones of the same name.
// A collection that fails to load is logged and skipped; only a failure to
// list the store is returned.
func (m *Manager) LoadAll(ctx context.Context) error {
	names, err := m.opts.blobStore.List(ctx, "")
	if err != nil {
		return fmt.Errorf("%w: list collections: %w", ErrIO, err)
	}

	var (
		mu     sync.Mutex
		loaded = make(map[string]*Collection)
		g      errgroup.Group
	)

	rc := m.opts.resources
	for _, blob := range names {
		name, ok := m.opts.format.CollectionName(blob)
		if !ok {
			continue
		}

		if err := rc.AcquireWorker(ctx); err != nil {
			break
		}
		g.Go(func() error {
			defer rc.ReleaseWorker()

			c := newCollection(name, m.opts)
			if err := c.Load(ctx); err != nil {
				m.opts.logger.WarnContext(ctx, "skipping collection", "collection", name, "blob", blob, "error", err)
				return nil
			}

			mu.Lock()
			loaded[name] = c
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	for name, c := range loaded {
		if old, ok := m.collections[name]; ok {
			old.release()
		}
		m.collections[name] = c
	}
	m.mu.Unlock()

	m.opts.logger.InfoContext(ctx, "collections loaded", "count", len(loaded))
	return nil
}

// SaveAll persists every collection concurrently. Each blob is written
// independently; the returned error joins the failures.
func (m *Manager) SaveAll(ctx context.Context) error {
	m.mu.RLock()
	cols := make([]*Collection, 0, len(m.collections))
	for _, c := range m.collections {
		cols = append(cols, c)
	}
	m.mu.RUnlock()

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)

	rc := m.opts.resources
	for _, c := range cols {
		if err := rc.AcquireWorker(ctx); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}
		g.Go(func() error {
			defer rc.ReleaseWorker()
			if err := c.Save(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Close saves every collection. The manager stays usable afterwards.
func (m *Manager) Close(ctx context.Context) error {
	return m.SaveAll(ctx)
}

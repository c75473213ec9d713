package badger

import (
	"context"
	"errors"
	"log"
	"strings"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/hupe1980/vecstore/blobstore"
)

// Options configures Open.
type Options struct {
	// Dir is the directory for BadgerDB data files. Required unless InMemory.
	Dir string

	// InMemory runs BadgerDB without disk persistence.
	InMemory bool

	// Prefix is prepended to every key, so several stores can share a DB.
	Prefix string

	// Logger sets the badger logger. If nil, only warnings and errors are
	// written to the standard logger.
	Logger badgerdb.Logger
}

// Store implements blobstore.BlobStore on top of a BadgerDB.
type Store struct {
	db     *badgerdb.DB
	prefix string
	owned  bool
}

var _ blobstore.BlobStore = (*Store)(nil)

// Open opens (or creates) a BadgerDB and wraps it in a Store. The Store owns
// the DB; Close closes it.
func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("badger: Options.Dir is required for on-disk mode")
	}

	dbOpts := badgerdb.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = badgerdb.DefaultOptions("").WithInMemory(true)
	}
	if opts.Logger != nil {
		dbOpts = dbOpts.WithLogger(opts.Logger)
	} else {
		dbOpts = dbOpts.WithLogger(defaultLogger{})
	}

	db, err := badgerdb.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, prefix: opts.Prefix, owned: true}, nil
}

// NewStore wraps an existing DB. The caller keeps ownership of db.
func NewStore(db *badgerdb.DB, prefix string) *Store {
	return &Store{db: db, prefix: prefix}
}

func (s *Store) key(name string) []byte {
	return []byte(s.prefix + name)
}

// Get returns the value stored for name.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var val []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(s.key(name))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, blobstore.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if val == nil {
		val = []byte{}
	}
	return val, nil
}

// Put stores data under name in a single transaction.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(s.key(name), data)
	})
}

// Delete removes name, reporting blobstore.ErrNotFound if it is absent.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	k := s.key(name)
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		if _, err := txn.Get(k); err != nil {
			return err
		}
		return txn.Delete(k)
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return blobstore.ErrNotFound
	}
	return err
}

// List returns the names with the given prefix in key order.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := s.key(prefix)

	var names []string
	err := s.db.View(func(txn *badgerdb.Txn) error {
		iterOpts := badgerdb.DefaultIteratorOptions
		iterOpts.PrefetchValues = false
		iterOpts.Prefix = p
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), s.prefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Close closes the underlying DB if the Store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// defaultLogger wraps the standard log package for badger, suppressing
// debug and info level messages.
type defaultLogger struct{}

func (defaultLogger) Errorf(f string, v ...interface{})   { log.Printf("[badger] ERROR: "+f, v...) }
func (defaultLogger) Warningf(f string, v ...interface{}) { log.Printf("[badger] WARN: "+f, v...) }
func (defaultLogger) Infof(string, ...interface{})        {}
func (defaultLogger) Debugf(string, ...interface{})       {}

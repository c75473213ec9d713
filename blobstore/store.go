package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore holds named, whole-object blobs (one per collection).
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Get returns the full content of a blob.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put replaces a blob atomically: readers observe either the old or the
	// new content, never a partial write.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Backends that can tell return ErrNotFound for a
	// missing blob; object stores with idempotent deletes return nil.
	Delete(ctx context.Context, name string) error

	// List returns the sorted names of all blobs starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Package blobstore provides the storage abstraction behind collection files.
//
// Every collection is persisted as a single blob that is rewritten as a whole
// on each mutation, so the interface deals in complete objects:
//
//	type BlobStore interface {
//	    Get(ctx, name) ([]byte, error)
//	    Put(ctx, name, data) error   // atomic replace
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// # Built-in Implementations
//
//   - LocalStore: local directory, temp file + fsync + rename
//   - MemoryStore: in-process map for tests and ephemeral stores
//   - s3.Store: Amazon S3 via the multipart upload manager
//   - minio.Store: MinIO and other S3-compatible servers
//   - badger.Store: embedded BadgerDB key/value store
package blobstore

// Package vecstore provides an embedded similarity-search store for
// fixed-dimension float32 vectors grouped into named collections.
//
// Each vector carries an optional text and a metadata document. Search is
// an exhaustive linear scan over a dense per-collection cache, scored with
// cosine, euclidean or dot-product similarity and optionally restricted by
// a metadata filter.
//
// # Quick Start
//
//	ctx := context.Background()
//	mgr, _ := vecstore.NewManager("./data")
//	_ = mgr.LoadAll(ctx)
//
//	docs, _ := mgr.CreateCollection(ctx, "docs")
//	id, _ := docs.Insert(ctx, []float32{1, 0, 0}, "a", metadata.Document{"tag": metadata.String("x")})
//
//	results, _ := docs.Search(ctx, vecstore.SearchRequest{
//		Vector: []float32{1, 0, 0},
//		K:      1,
//		Filter: metadata.Eq("tag", metadata.String("x")),
//	})
//
// # Persistence
//
// Every mutation rewrites the whole collection to its blob synchronously.
// Blobs live in a blobstore.BlobStore: a local directory by default, or an
// in-memory, S3, MinIO or Badger store via WithBlobStore. The document
// encoding is chosen with WithCodec and WithCompression.
//
// Writes to a local directory are atomic per blob. There is no atomicity
// across collections; SaveAll may leave some collections updated and others
// not.
//
// # Concurrency
//
// A Collection serializes writers and lets searches run concurrently. The
// Manager registry has its own lock, so creating or deleting collections
// does not wait for operations on other collections.
//
// # Errors
//
// Errors wrap the sentinels ErrNotFound, ErrInvalidArgument, ErrConflict and
// ErrIO; use errors.Is to classify them.
package vecstore

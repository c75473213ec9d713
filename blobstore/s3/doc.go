// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("vectors/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	mgr, err := vecstore.NewManager("", vecstore.WithBlobStore(store))
//
// Collection blobs are uploaded through the S3 upload manager, which switches
// to multipart uploads for large collections. S3 object writes are atomic, so
// Put needs no temp object.
package s3

// Package fs provides the file system seam behind the local blob store.
//
// [LocalFS] is the production implementation on top of the os package;
// [FaultyFS] wraps any [FileSystem] and injects write, sync, rename or read
// failures for tests:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("docs", fs.Fault{FailAfterBytes: -1, FailOnRename: true})
//
// Operations take no context.Context: local syscalls are not interruptible.
// Slow remote backends live behind blobstore.BlobStore, which does.
package fs

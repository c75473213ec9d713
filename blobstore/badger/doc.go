// Package badger provides a BlobStore backed by an embedded BadgerDB.
//
// Each blob is one key (rootPrefix + name) holding the full collection
// document. Badger transactions make Put atomic without temp files, and the
// in-memory mode gives tests a real storage engine without touching disk:
//
//	store, err := badger.Open(badger.Options{InMemory: true})
//	defer store.Close()
package badger

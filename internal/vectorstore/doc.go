// Package vectorstore provides the dense row-major vector arena that backs
// batch scoring.
//
// A Dense store keeps every vector of a collection in one contiguous
// []float32 plus a parallel id list and an id→row map. Rows are appended on
// insert and swap-removed on delete, so the arena stays dense without a
// full rebuild.
package vectorstore

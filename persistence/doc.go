// Package persistence defines the on-disk form of a collection.
//
// A collection is stored as one document
//
//	{"vectors": {"<id>": {"id": "...", "vector": [...], "text": "...", "metadata": {...}}}}
//
// encoded by a codec.Codec and optionally compressed with zstd or lz4. The
// [Format] pairs the two and derives the blob extension, e.g. ".json",
// ".msgpack.zst" or ".json.lz4". Decoding detects compression from the frame
// magic, so a reader configured without compression still reads compressed
// blobs.
package persistence

package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/vecstore/codec"
	"github.com/hupe1980/vecstore/model"
)

// ErrCorrupt is returned when a stored document cannot be decoded or
// violates the collection invariants.
var ErrCorrupt = errors.New("persistence: corrupt collection document")

// Format is the codec plus compression used for collection blobs.
type Format struct {
	Codec       codec.Codec
	Compression Compression
}

// DefaultFormat is uncompressed codec.Default.
func DefaultFormat() Format {
	return Format{Codec: codec.Default}
}

func (f Format) codec() codec.Codec {
	if f.Codec == nil {
		return codec.Default
	}
	return f.Codec
}

// Extension returns the blob suffix, e.g. ".json" or ".msgpack.zst".
func (f Format) Extension() string {
	return f.codec().Extension() + f.Compression.Extension()
}

// BlobName returns the blob name of a collection.
func (f Format) BlobName(collection string) string {
	return collection + f.Extension()
}

// CollectionName reverses BlobName. ok is false for blobs of other formats.
func (f Format) CollectionName(blob string) (string, bool) {
	name, ok := strings.CutSuffix(blob, f.Extension())
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

func (f Format) String() string {
	return fmt.Sprintf("%s+%s", f.codec().Name(), f.Compression)
}

// Encode serializes and compresses a snapshot.
func (f Format) Encode(s *Snapshot) ([]byte, error) {
	if s.Vectors == nil {
		s = &Snapshot{Vectors: map[string]*model.Entry{}}
	}
	data, err := f.codec().Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("persistence: encode with %s: %w", f.codec().Name(), err)
	}
	return f.Compression.compress(data)
}

// Decode decompresses, deserializes and validates a snapshot.
func (f Format) Decode(data []byte) (*Snapshot, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrCorrupt)
	}

	raw, err := decompress(data)
	if err != nil {
		return nil, err
	}

	var s Snapshot
	if err := f.codec().Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.codec().Name(), err)
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return &s, nil
}

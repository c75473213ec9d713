package persistence

import (
	"fmt"

	"github.com/hupe1980/vecstore/metadata"
	"github.com/hupe1980/vecstore/model"
)

// Snapshot is the persisted document of one collection.
type Snapshot struct {
	Vectors map[string]*model.Entry `json:"vectors"`
}

// NewSnapshot builds a snapshot that shares the given entries.
func NewSnapshot(entries map[string]*model.Entry) *Snapshot {
	return &Snapshot{Vectors: entries}
}

// Dimension returns the common vector length, or 0 for an empty snapshot.
func (s *Snapshot) Dimension() int {
	for _, e := range s.Vectors {
		return len(e.Vector)
	}
	return 0
}

// normalize fills defaults and checks the invariants a collection relies
// on: ids match their keys, vectors are non-empty and share one length.
func (s *Snapshot) normalize() error {
	if s.Vectors == nil {
		s.Vectors = make(map[string]*model.Entry)
		return nil
	}

	dim := -1
	for key, e := range s.Vectors {
		if e == nil {
			return fmt.Errorf("%w: entry %q is null", ErrCorrupt, key)
		}
		if e.ID == "" {
			e.ID = key
		}
		if e.ID != key {
			return fmt.Errorf("%w: entry %q has id %q", ErrCorrupt, key, e.ID)
		}
		if len(e.Vector) == 0 {
			return fmt.Errorf("%w: entry %q has no vector", ErrCorrupt, key)
		}
		if dim == -1 {
			dim = len(e.Vector)
		} else if len(e.Vector) != dim {
			return fmt.Errorf("%w: entry %q has dimension %d, want %d", ErrCorrupt, key, len(e.Vector), dim)
		}
		if e.Metadata == nil {
			e.Metadata = metadata.Document{}
		}
	}
	return nil
}

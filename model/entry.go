package model

import (
	"slices"

	"github.com/google/uuid"
	"github.com/hupe1980/vecstore/metadata"
)

// Entry is a single stored vector with its optional text and metadata.
//
// The JSON form is the persisted form: {"id", "vector", "text", "metadata"}.
type Entry struct {
	ID       string            `json:"id"`
	Vector   []float32         `json:"vector"`
	Text     string            `json:"text"`
	Metadata metadata.Document `json:"metadata"`
}

// NewID returns a fresh random 128-bit identifier in UUID text form.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy of e. Metadata is never nil in the copy.
func (e *Entry) Clone() Entry {
	return Entry{
		ID:       e.ID,
		Vector:   slices.Clone(e.Vector),
		Text:     e.Text,
		Metadata: e.Metadata.Clone(),
	}
}

// Dimension returns the length of the vector.
func (e *Entry) Dimension() int {
	return len(e.Vector)
}

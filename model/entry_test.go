package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hupe1980/vecstore/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}

func TestEntryClone(t *testing.T) {
	e := &Entry{
		ID:       "a",
		Vector:   []float32{1, 2},
		Text:     "t",
		Metadata: metadata.Document{"tag": metadata.String("x")},
	}

	c := e.Clone()
	c.Vector[0] = 9
	c.Metadata["tag"] = metadata.String("y")

	assert.Equal(t, float32(1), e.Vector[0])
	assert.Equal(t, "x", e.Metadata["tag"].S)
	assert.Equal(t, 2, e.Dimension())

	empty := (&Entry{ID: "b"}).Clone()
	assert.NotNil(t, empty.Metadata)
}

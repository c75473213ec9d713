package codec

import (
	"testing"

	"github.com/hupe1980/vecstore/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID       string            `json:"id"`
	Vector   []float32         `json:"vector"`
	Text     string            `json:"text"`
	Metadata metadata.Document `json:"metadata"`
}

func TestCodecs(t *testing.T) {
	in := record{
		ID:     "a",
		Vector: []float32{1, 0.5, -2},
		Text:   "hello",
		Metadata: metadata.Document{
			"tag":  metadata.String("x"),
			"year": metadata.Int(2024),
			"tags": metadata.Array(metadata.String("a")),
		},
	}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, ok := ByName(name)
			require.True(t, ok)
			assert.Equal(t, name, c.Name())

			b, err := c.Marshal(in)
			require.NoError(t, err)

			var out record
			require.NoError(t, c.Unmarshal(b, &out))
			assert.Equal(t, in.ID, out.ID)
			assert.Equal(t, in.Vector, out.Vector)
			assert.Equal(t, in.Text, out.Text)
			assert.True(t, in.Metadata.Equal(out.Metadata))
		})
	}
}

func TestByNameUnknown(t *testing.T) {
	_, ok := ByName("xml")
	assert.False(t, ok)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, ".json", JSON{}.Extension())
	assert.Equal(t, ".json", GoJSON{}.Extension())
	assert.Equal(t, ".msgpack", MsgPack{}.Extension())
}

func TestMustMarshal(t *testing.T) {
	assert.JSONEq(t, `{"a":1}`, string(MustMarshal(nil, map[string]int{"a": 1})))
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}

package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDense(t *testing.T) {
	t.Run("AppendSetsDimension", func(t *testing.T) {
		d := NewDense(0, 4)
		require.NoError(t, d.Append("a", []float32{1, 2, 3}))
		assert.Equal(t, 3, d.Dimension())
		assert.Equal(t, 1, d.Len())

		err := d.Append("b", []float32{1, 2})
		assert.ErrorIs(t, err, ErrWrongDimension)

		err = d.Append("a", []float32{4, 5, 6})
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("EmptyVector", func(t *testing.T) {
		d := NewDense(0, 0)
		assert.ErrorIs(t, d.Append("a", nil), ErrWrongDimension)
	})

	t.Run("RowMajorLayout", func(t *testing.T) {
		d := NewDense(2, 2)
		require.NoError(t, d.Append("a", []float32{1, 2}))
		require.NoError(t, d.Append("b", []float32{3, 4}))

		assert.Equal(t, []float32{1, 2, 3, 4}, d.Matrix())
		assert.Equal(t, []string{"a", "b"}, d.IDs())
		assert.Equal(t, []float32{3, 4}, d.Row(1))
		assert.Equal(t, "b", d.ID(1))

		r, ok := d.RowOf("b")
		require.True(t, ok)
		assert.Equal(t, 1, r)
	})

	t.Run("Set", func(t *testing.T) {
		d := NewDense(2, 2)
		require.NoError(t, d.Append("a", []float32{1, 2}))

		ok, err := d.Set("a", []float32{5, 6})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []float32{5, 6}, d.Row(0))

		ok, err = d.Set("missing", []float32{5, 6})
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = d.Set("a", []float32{1})
		assert.ErrorIs(t, err, ErrWrongDimension)
	})

	t.Run("SwapRemove", func(t *testing.T) {
		d := NewDense(0, 3)
		require.NoError(t, d.Append("a", []float32{1, 1}))
		require.NoError(t, d.Append("b", []float32{2, 2}))
		require.NoError(t, d.Append("c", []float32{3, 3}))

		assert.True(t, d.Remove("a"))
		assert.False(t, d.Remove("a"))

		assert.Equal(t, []string{"c", "b"}, d.IDs())
		assert.Equal(t, []float32{3, 3, 2, 2}, d.Matrix())
		r, ok := d.RowOf("c")
		require.True(t, ok)
		assert.Equal(t, 0, r)

		assert.True(t, d.Remove("b"))
		assert.Equal(t, []string{"c"}, d.IDs())
		assert.True(t, d.Remove("c"))
		assert.Equal(t, 0, d.Len())
		assert.Equal(t, 0, d.Dimension())
	})
}

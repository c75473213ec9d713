package testutil

import (
	"testing"

	"github.com/hupe1980/vecstore/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UniformVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
	for _, vec := range v {
		for _, x := range vec {
			assert.GreaterOrEqual(t, x, float32(-1.0))
			assert.Less(t, x, float32(1.0))
		}
	}
}

func TestUnitVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UnitVectors(8, 32)

	require.Len(t, v, 8)
	for _, vec := range v {
		assert.InDelta(t, 1.0, distance.Norm(vec), 1e-5)
	}
}

func TestDeterministicSeed(t *testing.T) {
	a := NewRNG(7).UniformVectors(4, 4)
	b := NewRNG(7).UniformVectors(4, 4)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(7), NewRNG(7).Seed())
}

func TestExactTopK(t *testing.T) {
	vectors := [][]float32{{0, 1}, {1, 0}, {1, 1}, {1, 0}}
	query := []float32{1, 0}

	assert.Equal(t, []int{1, 3}, ExactTopK(distance.MetricCosine, query, vectors, 2))
	assert.Equal(t, []int{1, 3, 2, 0}, ExactTopK(distance.MetricEuclidean, query, vectors, 10))
}

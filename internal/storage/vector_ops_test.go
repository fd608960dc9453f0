package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorSerializationRoundTrip(t *testing.T) {
	vec := []float32{0.5, -1.25, 3.75, 0}
	blob := serializeVector(vec)
	require.Len(t, blob, len(vec)*4)

	got, err := deserializeVector(blob)
	require.NoError(t, err)
	assert.Equal(t, vec, got)
}

func TestDeserializeVectorRejectsTruncatedBlob(t *testing.T) {
	_, err := deserializeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestNullableVector(t *testing.T) {
	assert.Nil(t, nullableVector(nil))
	assert.NotNil(t, nullableVector([]float32{1}))
}

func TestCosineDistance(t *testing.T) {
	a := []float32{1, 0, 0}

	// Identical vectors are at distance 0
	assert.InDelta(t, 0, cosineDistance(a, a), 1e-9)

	// Orthogonal vectors are at distance 1
	assert.InDelta(t, 1, cosineDistance(a, []float32{0, 1, 0}), 1e-9)

	// Opposite vectors are at distance 2
	assert.InDelta(t, 2, cosineDistance(a, []float32{-1, 0, 0}), 1e-9)

	// Magnitude does not affect the distance
	assert.InDelta(t, 0, cosineDistance(a, []float32{5, 0, 0}), 1e-6)
}

func TestCosineDistanceDegenerate(t *testing.T) {
	a := []float32{1, 0}

	// Mismatched dimensions and zero vectors fall back to similarity 0
	assert.InDelta(t, 1, cosineDistance(a, []float32{1, 0, 0}), 1e-9)
	assert.InDelta(t, 1, cosineDistance(a, []float32{0, 0}), 1e-9)
}

func TestCosineDistanceRange(t *testing.T) {
	a := []float32{0.3, -0.7, 0.2}
	b := []float32{-0.1, 0.9, 0.4}
	d := cosineDistance(a, b)
	assert.False(t, math.IsNaN(d))
	assert.GreaterOrEqual(t, d, 0.0)
	assert.LessOrEqual(t, d, 2.0)
}

package carousel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlane(t *testing.T) {
	desc := NewPlane(planeWidthSegments, planeHeightSegments)
	nVerts := (planeWidthSegments + 1) * (planeHeightSegments + 1)
	require.Len(t, desc.Vertices, nVerts*planeStride)
	require.Len(t, desc.Indices, planeWidthSegments*planeHeightSegments*6)
	assert.Equal(t, int32(planeStride*4), desc.Layout.Stride)

	for _, idx := range desc.Indices {
		require.Less(t, int(idx), nVerts)
	}
	for i := 0; i < nVerts; i++ {
		v := desc.Vertices[i*planeStride : (i+1)*planeStride]
		require.InDelta(t, 0, v[0], 0.5+1e-6)
		require.InDelta(t, 0, v[1], 0.5+1e-6)
		require.Zero(t, v[2])
		require.InDelta(t, v[0]+0.5, v[3], 1e-6, "u follows x")
		require.InDelta(t, v[1]+0.5, v[4], 1e-6, "v follows y")
	}

	first := desc.Vertices[:planeStride]
	assert.Equal(t, []float32{-0.5, 0.5, 0, 0, 1}, first)
	last := desc.Vertices[len(desc.Vertices)-planeStride:]
	assert.Equal(t, []float32{0.5, -0.5, 0, 1, 0}, last)
}

func TestNewPlaneClampsSegments(t *testing.T) {
	desc := NewPlane(0, -3)
	assert.Len(t, desc.Vertices, 4*planeStride)
	assert.Len(t, desc.Indices, 6)
}

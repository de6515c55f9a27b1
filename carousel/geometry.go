package carousel

import "github.com/hubastard/orbit/engine/core"

const (
	planeWidthSegments  = 100
	planeHeightSegments = 50
)

// Vertex: position3 + uv2 => 5 floats
const planeStride = 5

var planeVertexLayout = core.VertexLayout{
	Stride: planeStride * 4,
	Attributes: []core.VertexAttrib{
		{Location: 0, Size: 3, Type: core.AttribFloat32, Offset: 0},     // position
		{Location: 1, Size: 2, Type: core.AttribFloat32, Offset: 3 * 4}, // uv
	},
}

// NewPlane builds a unit plane centred on the origin, subdivided so the
// vertex stage can displace it. UV (0,0) is bottom-left.
func NewPlane(widthSegments, heightSegments int) core.MeshDesc {
	wSeg, hSeg := max(widthSegments, 1), max(heightSegments, 1)
	cols, rows := wSeg+1, hSeg+1

	verts := make([]float32, 0, cols*rows*planeStride)
	for iy := 0; iy < rows; iy++ {
		v := float32(iy) / float32(hSeg)
		y := 0.5 - v
		for ix := 0; ix < cols; ix++ {
			u := float32(ix) / float32(wSeg)
			verts = append(verts, u-0.5, y, 0, u, 1-v)
		}
	}

	inds := make([]uint32, 0, wSeg*hSeg*6)
	for iy := 0; iy < hSeg; iy++ {
		for ix := 0; ix < wSeg; ix++ {
			a := uint32(iy*cols + ix)
			b := uint32((iy+1)*cols + ix)
			c := b + 1
			d := a + 1
			inds = append(inds, a, b, d, b, c, d)
		}
	}
	return core.MeshDesc{Vertices: verts, Indices: inds, Layout: planeVertexLayout}
}

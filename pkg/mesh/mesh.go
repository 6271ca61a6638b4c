// Package mesh turns the kernel's triangle soup into indexed meshes.
// Vertices that several triangles share (same lattice edge) are emitted
// once and referenced by index.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/geom"
)

// VertexStride is the number of floats per vertex: position then normal.
const VertexStride = 6

// Mesh is an indexed triangle mesh for one chunk, suitable for rendering.
// Vertex positions are chunk-local; Position translates them to world space.
type Mesh struct {
	Vertices []float32  `json:"vertices"` // [x,y,z,nx,ny,nz, ...]
	Indices  []uint32   `json:"indices"`  // [i0,i1,i2, ...] triangles
	Position mgl32.Vec3 `json:"position"`

	// Bounds is the world-space box around all vertices. It is empty for
	// meshes without triangles. Encoders use WireBounds, since the empty
	// box is infinite and JSON cannot carry it.
	Bounds geom.AABB `json:"-"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// WireBounds returns a copy of Bounds for serialization, or nil when the
// mesh is empty.
func (m *Mesh) WireBounds() *geom.AABB {
	if m.IsEmpty() || m.Bounds.IsEmpty() {
		return nil
	}
	b := m.Bounds
	return &b
}

// Vertex returns the chunk-local position of vertex i.
func (m *Mesh) Vertex(i uint32) mgl32.Vec3 {
	o := int(i) * VertexStride
	return mgl32.Vec3{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i uint32) mgl32.Vec3 {
	o := int(i)*VertexStride + 3
	return mgl32.Vec3{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
}

// Triangle returns the world-space corners of triangle i.
func (m *Mesh) Triangle(i int) [3]mgl32.Vec3 {
	return [3]mgl32.Vec3{
		m.Vertex(m.Indices[i*3]).Add(m.Position),
		m.Vertex(m.Indices[i*3+1]).Add(m.Position),
		m.Vertex(m.Indices[i*3+2]).Add(m.Position),
	}
}

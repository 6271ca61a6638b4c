package mesh

import (
	"fmt"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/geom"
	"github.com/chazu/loam/pkg/kernel"
)

// NormalMode selects how vertex normals are derived from face normals.
type NormalMode int

const (
	// FlatNormals gives each vertex the normal of the first triangle that
	// referenced it.
	FlatNormals NormalMode = iota
	// SmoothNormals averages the normals of all triangles sharing a vertex.
	SmoothNormals
)

// ParseNormalMode maps "flat" and "smooth" to a NormalMode.
func ParseNormalMode(s string) (NormalMode, error) {
	switch s {
	case "", "flat":
		return FlatNormals, nil
	case "smooth":
		return SmoothNormals, nil
	}
	return FlatNormals, fmt.Errorf("mesh: unknown normal mode %q", s)
}

func (m NormalMode) String() string {
	if m == SmoothNormals {
		return "smooth"
	}
	return "flat"
}

// TableCapacity returns the vertex table size for a chunk of the given
// dimensions: twice the number of lattice edges, so the table never runs
// more than half full.
func TableCapacity(width, height int) int {
	return 2 * 3 * (width + 1) * (width + 1) * (height + 1)
}

// Builder deduplicates a soup buffer into an indexed Mesh. A Builder is not
// safe for concurrent use; give each worker its own, or take them from a
// BuilderPool.
type Builder struct {
	table *VertexTable
	mode  NormalMode
}

// NewBuilder creates a builder sized for chunks of the given dimensions.
func NewBuilder(width, height int, mode NormalMode) *Builder {
	return NewBuilderWithTable(NewVertexTable(TableCapacity(width, height)), mode)
}

// NewBuilderWithTable creates a builder around an existing table.
func NewBuilderWithTable(table *VertexTable, mode NormalMode) *Builder {
	return &Builder{table: table, mode: mode}
}

// Table returns the builder's vertex table.
func (b *Builder) Table() *VertexTable {
	return b.table
}

// Build reads every triangle record of buf and returns the indexed mesh
// positioned at position. Records holding kernel.Sentinel are skipped. The
// vertex table is reset first, so keys never leak between chunks.
func (b *Builder) Build(buf []float32, position mgl32.Vec3) (*Mesh, error) {
	if len(buf)%kernel.TriangleStride != 0 {
		return nil, fmt.Errorf("mesh: buffer length %d is not a multiple of %d", len(buf), kernel.TriangleStride)
	}
	b.table.Reset()

	m := &Mesh{
		Vertices: []float32{},
		Indices:  []uint32{},
		Position: position,
	}
	local := geom.Empty()

	for off := 0; off < len(buf); off += kernel.TriangleStride {
		rec := buf[off : off+kernel.TriangleStride]
		if rec[0] == kernel.Sentinel {
			continue
		}
		normal := rec[kernel.OffsetNormal : kernel.OffsetNormal+3]
		for j := 0; j < 3; j++ {
			key := kernel.DecodeEdgeKey(rec[kernel.OffsetKeys+j])
			next := uint32(m.VertexCount())
			idx, hit, err := b.table.GetOrInsert(key, next)
			if err != nil {
				return nil, err
			}
			if !hit {
				p := mgl32.Vec3{rec[j*3], rec[j*3+1], rec[j*3+2]}
				m.Vertices = append(m.Vertices, p[0], p[1], p[2], normal[0], normal[1], normal[2])
				local = local.Extend(p)
			} else if b.mode == SmoothNormals {
				o := int(idx)*VertexStride + 3
				m.Vertices[o] += normal[0]
				m.Vertices[o+1] += normal[1]
				m.Vertices[o+2] += normal[2]
			}
			m.Indices = append(m.Indices, idx)
		}
	}

	if b.mode == SmoothNormals {
		normalize(m.Vertices)
	}
	m.Bounds = local.Translate(position)
	return m, nil
}

func normalize(vertices []float32) {
	for o := 3; o < len(vertices); o += VertexStride {
		n := mgl32.Vec3{vertices[o], vertices[o+1], vertices[o+2]}
		l := n.Len()
		if l == 0 || math32.IsNaN(l) {
			continue
		}
		vertices[o] = n[0] / l
		vertices[o+1] = n[1] / l
		vertices[o+2] = n[2] / l
	}
}

// BuilderPool hands out builders of one chunk size and normal mode.
type BuilderPool struct {
	pool sync.Pool
}

// NewBuilderPool creates a pool of builders for chunks of the given size.
func NewBuilderPool(width, height int, mode NormalMode) *BuilderPool {
	p := &BuilderPool{}
	p.pool.New = func() any {
		return NewBuilder(width, height, mode)
	}
	return p
}

// Get takes a builder from the pool.
func (p *BuilderPool) Get() *Builder {
	return p.pool.Get().(*Builder)
}

// Put returns a builder to the pool.
func (p *BuilderPool) Put(b *Builder) {
	p.pool.Put(b)
}

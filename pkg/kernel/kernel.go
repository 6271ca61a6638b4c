// Package kernel defines the marching cubes kernel interface and the
// triangle soup buffer layout it produces. Implementations (cpu, pool, gpu)
// run MarchCube over every cube of a chunk lattice behind this interface,
// so the streaming layer can swap backends without changing anything else.
package kernel

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/loam/pkg/tables"
)

// Buffer layout. Every cube owns MaxTriangles records of TriangleStride
// floats:
//
//	[0:9]   v0, v1, v2 chunk-local positions
//	[9:12]  face normal
//	[12:15] edge keys of v0, v1, v2 (uint32 bit patterns)
//	[15]    unused
//
// Records that hold no triangle carry Sentinel in slot 0. Valid positions
// are never negative, so the sentinel cannot collide with a vertex.
const (
	MaxTriangles   = tables.MaxTriangles
	TriangleStride = 16
	CubeStride     = MaxTriangles * TriangleStride

	OffsetNormal = 9
	OffsetKeys   = 12

	Sentinel float32 = -1
)

// ErrInvalidDispatch is returned when a Dispatch does not describe a
// well-formed lattice.
var ErrInvalidDispatch = errors.New("kernel: invalid dispatch")

// ErrUnavailable is returned by backends that were not compiled in.
var ErrUnavailable = errors.New("kernel: backend unavailable")

// Dispatch is one kernel invocation: a chunk of Width x Height x Width
// cubes whose (Width+1) x (Height+1) x (Width+1) density samples are laid
// out x fastest, then z, then y.
type Dispatch struct {
	Width     int
	Height    int
	Threshold float32
	Densities []float32

	// Table is the flattened triangulation table (tables.Flat layout).
	// Nil selects tables.TriTable directly.
	Table []int32
}

// Validate checks the dispatch dimensions against its buffers.
func (d *Dispatch) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: size %dx%dx%d", ErrInvalidDispatch, d.Width, d.Height, d.Width)
	}
	if want := LatticeLen(d.Width, d.Height); len(d.Densities) != want {
		return fmt.Errorf("%w: %d densities, want %d", ErrInvalidDispatch, len(d.Densities), want)
	}
	if d.Table != nil && len(d.Table) != 256*tables.RowLen {
		return fmt.Errorf("%w: table has %d entries, want %d", ErrInvalidDispatch, len(d.Table), 256*tables.RowLen)
	}
	return nil
}

// Cubes returns the number of cubes in the dispatch grid.
func (d *Dispatch) Cubes() int {
	return d.Width * d.Width * d.Height
}

// Kernel turns a density lattice into a triangle soup buffer of
// BufferLen(d.Width, d.Height) floats.
type Kernel interface {
	Name() string
	March(ctx context.Context, d *Dispatch) ([]float32, error)
}

// LatticeLen returns the number of density samples for a chunk.
func LatticeLen(width, height int) int {
	return (width + 1) * (width + 1) * (height + 1)
}

// BufferLen returns the soup buffer length for a chunk.
func BufferLen(width, height int) int {
	return width * width * height * CubeStride
}

// CubeIndex returns the position of cube (x, y, z) in the soup buffer,
// in units of CubeStride.
func CubeIndex(width, x, y, z int) int {
	return x + z*width + y*width*width
}

// LayerLen returns the number of buffer floats covering one y layer.
func LayerLen(width int) int {
	return width * width * CubeStride
}

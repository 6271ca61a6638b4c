// Package field provides the scalar density field the terrain is extracted
// from: a procedural base source, a sparse per-chunk edit overlay, and the
// sampled lattice handed to the marching cubes kernel.
package field

// Source is a density field defined on the integer world lattice.
// Implementations must be pure functions of position so chunks can be
// sampled concurrently.
type Source interface {
	Density(x, y, z int) float32
}

// SourceFunc adapts a function to Source.
type SourceFunc func(x, y, z int) float32

// Density calls f(x, y, z).
func (f SourceFunc) Density(x, y, z int) float32 {
	return f(x, y, z)
}

// Constant is a field with the same density everywhere.
type Constant float32

// Density returns c.
func (c Constant) Density(x, y, z int) float32 {
	return float32(c)
}

// Lattice holds the (W+1) x (H+1) x (W+1) density samples of one chunk.
// Samples are stored x fastest, then z, then y.
type Lattice struct {
	Width  int
	Height int
	Values []float32
}

// NewLattice allocates a lattice for a chunk of the given cube dimensions.
func NewLattice(width, height int) *Lattice {
	return &Lattice{
		Width:  width,
		Height: height,
		Values: make([]float32, (width+1)*(width+1)*(height+1)),
	}
}

// Index returns the linear index of lattice point (x, y, z).
func (l *Lattice) Index(x, y, z int) int {
	return LatticeIndex(l.Width, x, y, z)
}

// Contains reports whether (x, y, z) is a point of the lattice.
func (l *Lattice) Contains(x, y, z int) bool {
	return x >= 0 && x <= l.Width &&
		z >= 0 && z <= l.Width &&
		y >= 0 && y <= l.Height
}

// At returns the sample at (x, y, z).
func (l *Lattice) At(x, y, z int) float32 {
	return l.Values[l.Index(x, y, z)]
}

// LatticeIndex linearizes (x, y, z) for a chunk width of w cubes.
func LatticeIndex(w, x, y, z int) int {
	row := w + 1
	return x + z*row + y*row*row
}

// Fill samples src into l for a chunk whose lattice origin sits at world
// position origin, adds overlay deltas, and clamps the result to [lo, hi].
// A nil overlay is treated as empty.
func Fill(l *Lattice, src Source, origin [3]int, ov *Overlay, lo, hi float32) {
	i := 0
	for y := 0; y <= l.Height; y++ {
		for z := 0; z <= l.Width; z++ {
			for x := 0; x <= l.Width; x++ {
				d := src.Density(origin[0]+x, origin[1]+y, origin[2]+z) + ov.At(i)
				l.Values[i] = clamp(d, lo, hi)
				i++
			}
		}
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

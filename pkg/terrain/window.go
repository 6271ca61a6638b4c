package terrain

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Coord is a chunk's position on the chunk grid. Chunk (x, y, z) covers
// world space [x*W, x*W+W] x [y*H, y*H+H] x [z*W, z*W+W].
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Origin returns the world position of the chunk's lattice origin.
func (c Coord) Origin(width, height int) [3]int {
	return [3]int{c.X * width, c.Y * height, c.Z * width}
}

// CoordOf returns the chunk containing world position p.
func CoordOf(p mgl32.Vec3, width, height int) Coord {
	return Coord{
		X: int(math32.Floor(p[0] / float32(width))),
		Y: int(math32.Floor(p[1] / float32(height))),
		Z: int(math32.Floor(p[2] / float32(width))),
	}
}

// Window is the inclusive box of chunk coordinates that should be resident.
type Window struct {
	Min, Max Coord
}

// ComputeWindow snaps ref to the chunk grid and spans rdH chunks along x
// and z and rdV chunks along y, with the reference chunk in the middle
// (for even distances the extra chunk goes on the positive side).
func ComputeWindow(ref mgl32.Vec3, width, height, rdH, rdV int) Window {
	c := CoordOf(ref, width, height)
	lo := Coord{
		X: c.X - (rdH-1)/2,
		Y: c.Y - (rdV-1)/2,
		Z: c.Z - (rdH-1)/2,
	}
	return Window{
		Min: lo,
		Max: Coord{X: lo.X + rdH - 1, Y: lo.Y + rdV - 1, Z: lo.Z + rdH - 1},
	}
}

// Contains reports whether c lies inside the window.
func (w Window) Contains(c Coord) bool {
	return c.X >= w.Min.X && c.X <= w.Max.X &&
		c.Y >= w.Min.Y && c.Y <= w.Max.Y &&
		c.Z >= w.Min.Z && c.Z <= w.Max.Z
}

// Size returns the number of chunk cells in the window.
func (w Window) Size() int {
	return (w.Max.X - w.Min.X + 1) * (w.Max.Y - w.Min.Y + 1) * (w.Max.Z - w.Min.Z + 1)
}

// Each calls fn for every coordinate in the window, y outermost then z
// then x.
func (w Window) Each(fn func(Coord)) {
	for y := w.Min.Y; y <= w.Max.Y; y++ {
		for z := w.Min.Z; z <= w.Max.Z; z++ {
			for x := w.Min.X; x <= w.Max.X; x++ {
				fn(Coord{X: x, Y: y, Z: z})
			}
		}
	}
}

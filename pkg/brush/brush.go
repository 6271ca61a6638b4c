// Package brush provides signed distance shapes for sculpting terrain,
// built on the github.com/deadsy/sdfx SDF library. A Brush can be stamped
// into the density overlay of resident chunks, or used directly as a
// density source for synthetic worlds.
package brush

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/geom"
)

// Brush is an immutable signed distance shape. Distances are negative
// inside the shape.
type Brush struct {
	s sdf.SDF3
}

func wrap(s sdf.SDF3) *Brush {
	return &Brush{s: s}
}

func vec(p mgl32.Vec3) v3.Vec {
	return v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

// Sphere creates a sphere of the given radius centred on the origin.
func Sphere(radius float64) (*Brush, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("brush: sphere: %w", err)
	}
	return wrap(s), nil
}

// Box creates a box with the given dimensions centred on the origin.
func Box(x, y, z float64) (*Brush, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("brush: box: %w", err)
	}
	return wrap(s), nil
}

// Cylinder creates a cylinder along the y axis centred on the origin.
func Cylinder(height, radius float64) (*Brush, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("brush: cylinder: %w", err)
	}
	// sdfx cylinders run along z; stand them up so tunnels and pillars
	// read naturally in a y-up world.
	return wrap(sdf.Transform3D(s, sdf.RotateX(math.Pi/2))), nil
}

// Union returns the union of two brushes.
func Union(a, b *Brush) *Brush {
	return wrap(sdf.Union3D(a.s, b.s))
}

// Difference returns a with b carved out.
func Difference(a, b *Brush) *Brush {
	return wrap(sdf.Difference3D(a.s, b.s))
}

// Intersection returns the intersection of two brushes.
func Intersection(a, b *Brush) *Brush {
	return wrap(sdf.Intersect3D(a.s, b.s))
}

// Translate moves the brush by d.
func (b *Brush) Translate(d mgl32.Vec3) *Brush {
	return wrap(sdf.Transform3D(b.s, sdf.Translate3d(vec(d))))
}

// Rotate rotates the brush by Euler angles in degrees around X, Y, Z.
func (b *Brush) Rotate(x, y, z float64) *Brush {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(b.s, m))
}

// Distance returns the signed distance from p to the brush surface.
func (b *Brush) Distance(p mgl32.Vec3) float32 {
	return float32(b.s.Evaluate(vec(p)))
}

// Contains reports whether p lies inside or on the brush.
func (b *Brush) Contains(p mgl32.Vec3) bool {
	return b.Distance(p) <= 0
}

// Bounds returns the world-space box enclosing the brush.
func (b *Brush) Bounds() geom.AABB {
	bb := b.s.BoundingBox()
	return geom.AABB{
		Min: mgl32.Vec3{float32(bb.Min.X), float32(bb.Min.Y), float32(bb.Min.Z)},
		Max: mgl32.Vec3{float32(bb.Max.X), float32(bb.Max.Y), float32(bb.Max.Z)},
	}
}

// Preview meshes the brush with sdfx's own marching cubes renderer at the
// given resolution. It is meant for tooling and tests; terrain meshes go
// through the chunk pipeline instead.
func (b *Brush) Preview(cells int) [][3]mgl32.Vec3 {
	triangles := render.ToTriangles(b.s, render.NewMarchingCubesUniform(cells))
	out := make([][3]mgl32.Vec3, 0, len(triangles))
	for _, tri := range triangles {
		var t [3]mgl32.Vec3
		for j := 0; j < 3; j++ {
			v := tri[j]
			t[j] = mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
		}
		out = append(out, t)
	}
	return out
}

// Source is a density field shaped like a brush: 1 deep inside,
// 0 well outside and a linear ramp of width Falloff centred on the surface.
type Source struct {
	Brush   *Brush
	Falloff float32
}

// Field adapts b to a density source with the given ramp width.
func Field(b *Brush, falloff float32) *Source {
	if falloff <= 0 {
		falloff = 1
	}
	return &Source{Brush: b, Falloff: falloff}
}

// Density samples the field at lattice point (x, y, z).
func (s *Source) Density(x, y, z int) float32 {
	d := s.Brush.Distance(mgl32.Vec3{float32(x), float32(y), float32(z)})
	v := 0.5 - d/s.Falloff
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

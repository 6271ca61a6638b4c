// Package geom provides the small amount of 3D geometry the terrain needs:
// axis-aligned boxes, rays and the two intersection tests used by raycasts.
package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the determinant cutoff below which a ray counts as parallel to
// a triangle.
const Epsilon = 1e-7

// AABB is an axis-aligned bounding box. The zero value is not empty; use
// Empty to start accumulating points.
type AABB struct {
	Min mgl32.Vec3 `json:"min"`
	Max mgl32.Vec3 `json:"max"`
}

// Empty returns a box that contains nothing. Extending it by a point yields
// a degenerate box around that point.
func Empty() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend grows the box to include p.
func (b AABB) Extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
	return b
}

// Translate shifts the box by d.
func (b AABB) Translate(d mgl32.Vec3) AABB {
	if b.IsEmpty() {
		return b
	}
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Contains reports whether p lies inside the box, borders included.
func (b AABB) Contains(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Overlaps reports whether two boxes share at least one point.
func (b AABB) Overlaps(o AABB) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || o.Max[i] < b.Min[i] {
			return false
		}
	}
	return true
}

// Ray is a half-line. Dir is expected to be normalized.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// NewRay builds a ray, normalizing dir. A zero direction is kept as-is and
// will never hit anything.
func NewRay(origin, dir mgl32.Vec3) Ray {
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return Ray{Origin: origin, Dir: dir}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// RayAABB performs the slab test. It returns the entry and exit distances
// and whether the ray touches the box in front of its origin. A zero
// direction component passes only if the origin lies within that slab.
func RayAABB(r Ray, b AABB) (tmin, tmax float32, ok bool) {
	if b.IsEmpty() {
		return 0, 0, false
	}
	tmin = math32.Inf(-1)
	tmax = math32.Inf(1)
	for i := 0; i < 3; i++ {
		if r.Dir[i] == 0 {
			if r.Origin[i] < b.Min[i] || r.Origin[i] > b.Max[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / r.Dir[i]
		t1 := (b.Min[i] - r.Origin[i]) * inv
		t2 := (b.Max[i] - r.Origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}
	if tmax < tmin || tmax < 0 {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// RayTriangle intersects a ray with triangle (a, b, c) using the
// Möller-Trumbore algorithm. Both faces are hit. It returns the distance
// along the ray and false for misses, parallel rays and hits behind the
// origin.
func RayTriangle(r Ray, a, b, c mgl32.Vec3) (float32, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < Epsilon {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}

// TriangleNormal returns the unit normal of (a, b, c) following the
// right-hand rule, or the zero vector for degenerate triangles.
func TriangleNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l == 0 || math32.IsNaN(l) {
		return mgl32.Vec3{}
	}
	return n.Mul(1 / l)
}

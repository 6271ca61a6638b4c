package terrain

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/geom"
)

// RayHit is a Raycast result. The other fields are only meaningful when
// Hit is true.
type RayHit struct {
	Hit      bool       `json:"hit"`
	Position mgl32.Vec3 `json:"position"`
	Normal   mgl32.Vec3 `json:"normal"`
	Distance float32    `json:"distance"`
	Chunk    Coord      `json:"chunk"`
}

// Raycast returns the closest intersection of the ray from origin along dir
// with any resident chunk mesh, within MaxRayDistance. Each chunk's bounds
// are tested first and chunks whose box starts beyond the current best hit
// are skipped. Meshes are only as fresh as the last Tick.
func (m *Manager) Raycast(origin, dir mgl32.Vec3) RayHit {
	ray := geom.NewRay(origin, dir)
	var best RayHit
	if ray.Dir == (mgl32.Vec3{}) {
		return best
	}
	limit := m.opts.MaxRayDistance

	m.chunks.Each(func(_ Handle, c *Chunk) {
		if c.Mesh == nil || c.Mesh.IsEmpty() {
			return
		}
		tmin, _, ok := geom.RayAABB(ray, c.Mesh.Bounds)
		if !ok || tmin > limit || (best.Hit && tmin > best.Distance) {
			return
		}
		for i := 0; i < c.Mesh.TriangleCount(); i++ {
			tri := c.Mesh.Triangle(i)
			t, ok := geom.RayTriangle(ray, tri[0], tri[1], tri[2])
			if !ok || t > limit {
				continue
			}
			if best.Hit && t >= best.Distance {
				continue
			}
			best = RayHit{
				Hit:      true,
				Position: ray.At(t),
				Normal:   geom.TriangleNormal(tri[0], tri[1], tri[2]),
				Distance: t,
				Chunk:    c.Coord,
			}
		}
	})
	return best
}

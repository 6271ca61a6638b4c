package terrain

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/brush"
	"github.com/chazu/loam/pkg/field"
	"github.com/chazu/loam/pkg/geom"
)

// latticeBox returns the world-space box spanned by chunk c's lattice.
func (m *Manager) latticeBox(c Coord) geom.AABB {
	o := c.Origin(m.width, m.height)
	lo := mgl32.Vec3{float32(o[0]), float32(o[1]), float32(o[2])}
	return geom.AABB{
		Min: lo,
		Max: lo.Add(mgl32.Vec3{float32(m.width), float32(m.height), float32(m.width)}),
	}
}

// editChunks calls fn for every resident chunk whose lattice overlaps box,
// with the integer lattice range (chunk-local, inclusive) that box covers.
// Chunks fn reports as changed are flagged for regeneration. It returns the
// number of changed chunks.
func (m *Manager) editChunks(box geom.AABB, fn func(c *Chunk, lo, hi [3]int) bool) int {
	touched := 0
	m.chunks.Each(func(_ Handle, c *Chunk) {
		lb := m.latticeBox(c.Coord)
		if !lb.Overlaps(box) {
			return
		}
		o := c.Coord.Origin(m.width, m.height)
		size := [3]int{m.width, m.height, m.width}
		var lo, hi [3]int
		for k := 0; k < 3; k++ {
			lo[k] = max(int(math32.Ceil(box.Min[k]))-o[k], 0)
			hi[k] = min(int(math32.Floor(box.Max[k]))-o[k], size[k])
		}
		if fn(c, lo, hi) {
			c.Regenerate = true
			touched++
		}
	})
	return touched
}

// AddDensity adds density around pos to every resident chunk whose lattice
// reaches within radius of it. Each lattice point at distance d <= radius
// receives amount/max(d, 1); the floor keeps the centre point finite.
// Chunks that receive any delta are flagged and remeshed on a later Tick,
// so the edit is not visible to Raycast until then. Edits where no chunk is
// resident are dropped. It returns the number of chunks changed.
func (m *Manager) AddDensity(pos mgl32.Vec3, radius, amount float32) int {
	if radius < 0 || amount == 0 {
		return 0
	}
	r := mgl32.Vec3{radius, radius, radius}
	box := geom.AABB{Min: pos.Sub(r), Max: pos.Add(r)}

	touched := m.editChunks(box, func(c *Chunk, lo, hi [3]int) bool {
		o := c.Coord.Origin(m.width, m.height)
		changed := false
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				for x := lo[0]; x <= hi[0]; x++ {
					p := mgl32.Vec3{float32(o[0] + x), float32(o[1] + y), float32(o[2] + z)}
					d := p.Sub(pos).Len()
					if d > radius {
						continue
					}
					if c.Overlay == nil {
						c.Overlay = &field.Overlay{}
					}
					c.Overlay.Add(field.LatticeIndex(m.width, x, y, z), amount/math32.Max(d, 1))
					changed = true
				}
			}
		}
		return changed
	})

	if touched == 0 {
		m.log.Debug("edit dropped: no resident chunk", "pos", pos, "radius", radius)
	} else {
		m.log.Debug("density added", "pos", pos, "radius", radius, "amount", amount, "chunks", touched)
	}
	return touched
}

// Stamp adds amount to every resident lattice point inside b. Use a
// negative amount to carve. It returns the number of chunks changed.
func (m *Manager) Stamp(b *brush.Brush, amount float32) int {
	if amount == 0 {
		return 0
	}
	touched := m.editChunks(b.Bounds(), func(c *Chunk, lo, hi [3]int) bool {
		o := c.Coord.Origin(m.width, m.height)
		changed := false
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				for x := lo[0]; x <= hi[0]; x++ {
					p := mgl32.Vec3{float32(o[0] + x), float32(o[1] + y), float32(o[2] + z)}
					if !b.Contains(p) {
						continue
					}
					if c.Overlay == nil {
						c.Overlay = &field.Overlay{}
					}
					c.Overlay.Add(field.LatticeIndex(m.width, x, y, z), amount)
					changed = true
				}
			}
		}
		return changed
	})
	m.log.Debug("brush stamped", "bounds", b.Bounds(), "amount", amount, "chunks", touched)
	return touched
}

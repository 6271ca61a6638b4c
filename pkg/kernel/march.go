package kernel

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/loam/pkg/tables"
)

// MarchLayer marches every cube of layer y into out, which must be
// LayerLen(d.Width) floats long.
func MarchLayer(d *Dispatch, y int, out []float32) {
	for z := 0; z < d.Width; z++ {
		for x := 0; x < d.Width; x++ {
			off := (x + z*d.Width) * CubeStride
			MarchCube(d, x, y, z, out[off:off+CubeStride])
		}
	}
}

// MarchCube writes the triangles of cube (x, y, z) into out, which must be
// CubeStride floats long. Every record is written, unused ones with
// Sentinel, so buffers can be reused without clearing. The function reads
// only d and writes only out.
func MarchCube(d *Dispatch, x, y, z int, out []float32) {
	var (
		idx  [8]int
		dens [8]float32
		mask int
	)
	for c, o := range tables.CornerOffsets {
		idx[c] = latticeIndex(d.Width, x+o[0], y+o[1], z+o[2])
		dens[c] = d.Densities[idx[c]]
		if dens[c] > d.Threshold {
			mask |= 1 << c
		}
	}

	n := 0
	for i := 0; i+2 < tables.RowLen && n < MaxTriangles; i += 3 {
		e0 := edgeAt(d, mask, i)
		if e0 == tables.End {
			break
		}
		edges := [3]int{e0, edgeAt(d, mask, i+1), edgeAt(d, mask, i+2)}

		var (
			pos  [3]mgl32.Vec3
			keys [3]uint32
			ok   = true
		)
		for j, e := range edges {
			a, b := tables.EdgeCorners[e][0], tables.EdgeCorners[e][1]
			pa := corner(x, y, z, a)
			pb := corner(x, y, z, b)
			pos[j], ok = VertexInterp(d.Threshold, pa, pb, dens[a], dens[b])
			if !ok {
				break
			}
			keys[j] = EdgeKey(idx[a], tables.EdgeAxis[e])
		}
		if !ok {
			continue
		}
		normal, ok := faceNormal(pos[0], pos[1], pos[2])
		if !ok {
			continue
		}

		rec := out[n*TriangleStride : (n+1)*TriangleStride]
		for j := 0; j < 3; j++ {
			rec[j*3] = pos[j][0]
			rec[j*3+1] = pos[j][1]
			rec[j*3+2] = pos[j][2]
			rec[OffsetKeys+j] = math.Float32frombits(keys[j])
		}
		rec[OffsetNormal] = normal[0]
		rec[OffsetNormal+1] = normal[1]
		rec[OffsetNormal+2] = normal[2]
		rec[TriangleStride-1] = 0
		n++
	}
	for ; n < MaxTriangles; n++ {
		out[n*TriangleStride] = Sentinel
	}
}

// VertexInterp places the iso-surface crossing on the segment between
// lattice points pA and pB with densities dA and dB. The endpoints are put
// in a canonical order first, so (A, B) and (B, A) give bit-identical
// results and a shared edge yields the same vertex in every cube that
// touches it. It reports false when the crossing is undefined (equal or
// non-finite densities).
func VertexInterp(threshold float32, pA, pB mgl32.Vec3, dA, dB float32) (mgl32.Vec3, bool) {
	if lessVec(pB, pA) {
		pA, pB = pB, pA
		dA, dB = dB, dA
	}
	if dA == dB {
		return mgl32.Vec3{}, false
	}
	t := (threshold - dA) / (dB - dA)
	if math32.IsNaN(t) || math32.IsInf(t, 0) {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{
		pA[0] + t*(pB[0]-pA[0]),
		pA[1] + t*(pB[1]-pA[1]),
		pA[2] + t*(pB[2]-pA[2]),
	}, true
}

// EdgeKey identifies a lattice edge by its lower endpoint and axis. It is
// unique within a chunk, so it serves as the dedup key for the vertex the
// surface places on that edge.
func EdgeKey(lowerLatticeIndex int, axis tables.Axis) uint32 {
	return uint32(lowerLatticeIndex)*3 + uint32(axis)
}

// DecodeEdgeKey reads an edge key back from a soup buffer slot.
func DecodeEdgeKey(v float32) uint32 {
	return math.Float32bits(v)
}

func edgeAt(d *Dispatch, mask, i int) int {
	if d.Table != nil {
		return int(d.Table[mask*tables.RowLen+i])
	}
	return int(tables.TriTable[mask][i])
}

func corner(x, y, z, c int) mgl32.Vec3 {
	o := tables.CornerOffsets[c]
	return mgl32.Vec3{float32(x + o[0]), float32(y + o[1]), float32(z + o[2])}
}

func latticeIndex(w, x, y, z int) int {
	row := w + 1
	return x + z*row + y*row*row
}

func lessVec(a, b mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func faceNormal(a, b, c mgl32.Vec3) (mgl32.Vec3, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l == 0 || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return mgl32.Vec3{}, false
	}
	return n.Mul(1 / l), true
}

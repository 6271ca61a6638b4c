package tables

import "testing"

func TestRowsTerminated(t *testing.T) {
	for mask := 0; mask < 256; mask++ {
		row := TriTable[mask]
		n := 0
		for n < RowLen && row[n] != End {
			if row[n] < 0 || row[n] > 11 {
				t.Fatalf("mask %d: entry %d = %d, want edge 0..11", mask, n, row[n])
			}
			n++
		}
		if n == RowLen {
			t.Fatalf("mask %d: row has no terminator", mask)
		}
		if n%3 != 0 {
			t.Errorf("mask %d: %d entries, want a multiple of 3", mask, n)
		}
		for i := n; i < RowLen; i++ {
			if row[i] != End {
				t.Errorf("mask %d: entry %d after terminator = %d", mask, i, row[i])
			}
		}
		if got := Triangles(uint8(mask)); got != n/3 || got > MaxTriangles {
			t.Errorf("Triangles(%d) = %d, want %d (max %d)", mask, got, n/3, MaxTriangles)
		}
	}
}

func TestEmptyAndFullMasks(t *testing.T) {
	if n := Triangles(0); n != 0 {
		t.Errorf("Triangles(0) = %d, want 0", n)
	}
	if n := Triangles(255); n != 0 {
		t.Errorf("Triangles(255) = %d, want 0", n)
	}
}

func TestRowsUseExactlyCrossedEdges(t *testing.T) {
	for mask := 1; mask < 255; mask++ {
		crossed := map[int8]bool{}
		for e, c := range EdgeCorners {
			a := mask>>c[0]&1 == 1
			b := mask>>c[1]&1 == 1
			if a != b {
				crossed[int8(e)] = true
			}
		}
		used := map[int8]bool{}
		for _, e := range TriTable[mask] {
			if e == End {
				break
			}
			if !crossed[e] {
				t.Fatalf("mask %d: edge %d is not crossed by the surface", mask, e)
			}
			used[e] = true
		}
		if len(used) != len(crossed) {
			t.Errorf("mask %d: uses %d edges, %d are crossed", mask, len(used), len(crossed))
		}
	}
}

func TestEdgeCornersFollowAxis(t *testing.T) {
	for e, c := range EdgeCorners {
		a, b := CornerOffsets[c[0]], CornerOffsets[c[1]]
		axis := int(EdgeAxis[e])
		for k := 0; k < 3; k++ {
			d := b[k] - a[k]
			if k == axis && d != 1 {
				t.Errorf("edge %d: step along axis %d = %d, want 1", e, k, d)
			}
			if k != axis && d != 0 {
				t.Errorf("edge %d: step along axis %d = %d, want 0", e, k, d)
			}
		}
	}
}

// Triangles built on edge midpoints must face from the inside corners
// toward the outside corners of the edges they cross.
func TestWindingFacesOutward(t *testing.T) {
	for mask := 1; mask < 255; mask++ {
		row := TriTable[mask]
		for i := 0; i < RowLen && row[i] != End; i += 3 {
			var p [3][3]float64
			var dir [3]float64
			for j := 0; j < 3; j++ {
				c := EdgeCorners[row[i+j]]
				a, b := CornerOffsets[c[0]], CornerOffsets[c[1]]
				in, out := a, b
				if mask>>c[0]&1 == 0 {
					in, out = b, a
				}
				for k := 0; k < 3; k++ {
					p[j][k] = float64(a[k]+b[k]) / 2
					dir[k] += float64(out[k] - in[k])
				}
			}
			u := [3]float64{p[1][0] - p[0][0], p[1][1] - p[0][1], p[1][2] - p[0][2]}
			v := [3]float64{p[2][0] - p[0][0], p[2][1] - p[0][1], p[2][2] - p[0][2]}
			n := [3]float64{
				u[1]*v[2] - u[2]*v[1],
				u[2]*v[0] - u[0]*v[2],
				u[0]*v[1] - u[1]*v[0],
			}
			if d := n[0]*dir[0] + n[1]*dir[1] + n[2]*dir[2]; d <= 0 {
				t.Errorf("mask %d triangle %d faces inward (dot %v)", mask, i/3, d)
			}
		}
	}
}

func TestFlat(t *testing.T) {
	flat := Flat()
	if len(flat) != 256*RowLen {
		t.Fatalf("len(Flat()) = %d, want %d", len(flat), 256*RowLen)
	}
	for _, mask := range []int{0, 1, 95, 254} {
		for i := 0; i < RowLen; i++ {
			if flat[mask*RowLen+i] != int32(TriTable[mask][i]) {
				t.Fatalf("Flat()[%d*16+%d] = %d, want %d", mask, i, flat[mask*RowLen+i], TriTable[mask][i])
			}
		}
	}
}

// Package tables holds the marching cubes lookup tables.
//
// Corner layout (y is up):
//
//	  7 ------ 6
//	 /|       /|
//	4 ------ 5 |
//	| 3 -----|-2
//	|/       |/
//	0 ------ 1
//
// Corner 0 is the cube's lattice origin, 1 is +x, 3 is +z and 4 is +y.
// Edges 0-3 run around the bottom ring, 4-7 around the top ring and
// 8-11 are the verticals.
//
// Every triangle listed in TriTable is wound so that cross(v1-v0, v2-v0)
// points from the inside of the surface (density above threshold) to the
// outside. Ambiguous faces keep inside corners separated. That rule only
// looks at the four corners of a face, so neighbouring cubes always agree
// and the extracted surface is closed across cube and chunk boundaries.
package tables

// MaxTriangles is the largest number of triangles a single cube can emit.
const MaxTriangles = 5

// RowLen is the length of one TriTable row.
const RowLen = 16

// End terminates a TriTable row.
const End = -1

// Axis identifies the lattice axis an edge runs along.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// CornerOffsets gives the lattice offset of each cube corner.
var CornerOffsets = [8][3]int{
	{0, 0, 0},
	{1, 0, 0},
	{1, 0, 1},
	{0, 0, 1},
	{0, 1, 0},
	{1, 1, 0},
	{1, 1, 1},
	{0, 1, 1},
}

// EdgeCorners gives the two corners joined by each cube edge. The first
// corner is always the lower end along the edge's axis.
var EdgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {3, 2}, {0, 3},
	{4, 5}, {5, 6}, {7, 6}, {4, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// EdgeAxis gives the axis each edge runs along.
var EdgeAxis = [12]Axis{
	AxisX, AxisZ, AxisX, AxisZ,
	AxisX, AxisZ, AxisX, AxisZ,
	AxisY, AxisY, AxisY, AxisY,
}

// Triangles returns the number of triangles emitted for a corner mask.
func Triangles(mask uint8) int {
	row := &TriTable[mask]
	n := 0
	for n < RowLen && row[n] != End {
		n++
	}
	return n / 3
}

// Flat returns TriTable as a 256*16 buffer, the layout accelerated
// kernels upload once and index as mask*16+i.
func Flat() []int32 {
	out := make([]int32, 0, len(TriTable)*RowLen)
	for _, row := range TriTable {
		for _, e := range row {
			out = append(out, int32(e))
		}
	}
	return out
}

// TriTable lists, for every corner mask, the edges crossed by each emitted
// triangle, three at a time. Bit i of the mask is set when corner i is
// inside. Rows are terminated with End.
var TriTable = [256][RowLen]int8{
	{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 8, 3, 1, 9, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 1, 2, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 2, 10, 0, 10, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{2, 8, 3, 2, 9, 8, 2, 10, 9, -1, -1, -1, -1, -1, -1, -1},
	{2, 3, 11, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 11, 0, 11, 2, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 11, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 8, 11, 1, 9, 8, 1, 11, 2, -1, -1, -1, -1, -1, -1, -1},
	{1, 3, 11, 1, 11, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 11, 0, 10, 1, 0, 11, 10, -1, -1, -1, -1, -1, -1, -1},
	{0, 3, 11, 0, 10, 9, 0, 11, 10, -1, -1, -1, -1, -1, -1, -1},
	{8, 10, 9, 8, 11, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{4, 7, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 4, 7, 0, 7, 3, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 4, 3, 1, 9, 4, 3, 4, 7, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 10, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 4, 7, 0, 7, 3, 1, 2, 10, -1, -1, -1, -1, -1, -1, -1},
	{0, 2, 10, 0, 10, 9, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1},
	{2, 9, 3, 2, 10, 9, 3, 4, 7, 3, 9, 4, -1, -1, -1, -1},
	{2, 3, 11, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 4, 7, 0, 7, 11, 0, 11, 2, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 11, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1},
	{1, 4, 11, 1, 9, 4, 1, 11, 2, 4, 7, 11, -1, -1, -1, -1},
	{1, 3, 11, 1, 11, 10, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1},
	{0, 4, 7, 0, 7, 11, 0, 10, 1, 0, 11, 10, -1, -1, -1, -1},
	{0, 3, 11, 0, 10, 9, 0, 11, 10, 4, 7, 8, -1, -1, -1, -1},
	{4, 7, 11, 4, 10, 9, 4, 11, 10, -1, -1, -1, -1, -1, -1, -1},
	{4, 9, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 4, 9, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 4, 8, 1, 5, 4, 1, 8, 3, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 10, 4, 9, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 1, 2, 10, 4, 9, 5, -1, -1, -1, -1, -1, -1, -1},
	{0, 2, 10, 0, 5, 4, 0, 10, 5, -1, -1, -1, -1, -1, -1, -1},
	{2, 5, 8, 2, 8, 3, 2, 10, 5, 4, 8, 5, -1, -1, -1, -1},
	{2, 3, 11, 4, 9, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 11, 0, 11, 2, 4, 9, 5, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 4, 2, 3, 11, -1, -1, -1, -1, -1, -1, -1},
	{1, 4, 8, 1, 5, 4, 1, 8, 11, 1, 11, 2, -1, -1, -1, -1},
	{1, 3, 11, 1, 11, 10, 4, 9, 5, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 11, 0, 10, 1, 0, 11, 10, 4, 9, 5, -1, -1, -1, -1},
	{0, 3, 11, 0, 5, 4, 0, 10, 5, 0, 11, 10, -1, -1, -1, -1},
	{4, 8, 11, 4, 10, 5, 4, 11, 10, -1, -1, -1, -1, -1, -1, -1},
	{5, 7, 8, 5, 8, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 5, 7, 0, 7, 3, 0, 9, 5, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 7, 0, 7, 8, -1, -1, -1, -1, -1, -1, -1},
	{1, 5, 7, 1, 7, 3, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 10, 5, 7, 8, 5, 8, 9, -1, -1, -1, -1, -1, -1, -1},
	{0, 5, 7, 0, 7, 3, 0, 9, 5, 1, 2, 10, -1, -1, -1, -1},
	{0, 2, 10, 0, 5, 7, 0, 7, 8, 0, 10, 5, -1, -1, -1, -1},
	{2, 5, 7, 2, 7, 3, 2, 10, 5, -1, -1, -1, -1, -1, -1, -1},
	{2, 3, 11, 5, 7, 8, 5, 8, 9, -1, -1, -1, -1, -1, -1, -1},
	{0, 5, 7, 0, 7, 11, 0, 9, 5, 0, 11, 2, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 7, 0, 7, 8, 2, 3, 11, -1, -1, -1, -1},
	{1, 5, 11, 1, 11, 2, 5, 7, 11, -1, -1, -1, -1, -1, -1, -1},
	{1, 3, 11, 1, 11, 10, 5, 7, 8, 5, 8, 9, -1, -1, -1, -1},
	{0, 5, 7, 0, 7, 11, 0, 9, 5, 0, 10, 1, 0, 11, 10, -1},
	{0, 3, 11, 0, 5, 7, 0, 7, 8, 0, 10, 5, 0, 11, 10, -1},
	{5, 7, 11, 5, 11, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{5, 10, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 5, 10, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 5, 10, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 8, 3, 1, 9, 8, 5, 10, 6, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 6, 1, 6, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 1, 2, 6, 1, 6, 5, -1, -1, -1, -1, -1, -1, -1},
	{0, 2, 5, 0, 5, 9, 2, 6, 5, -1, -1, -1, -1, -1, -1, -1},
	{2, 5, 9, 2, 6, 5, 2, 8, 3, 2, 9, 8, -1, -1, -1, -1},
	{2, 3, 11, 5, 10, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 11, 0, 11, 2, 5, 10, 6, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 11, 5, 10, 6, -1, -1, -1, -1, -1, -1, -1},
	{1, 8, 11, 1, 9, 8, 1, 11, 2, 5, 10, 6, -1, -1, -1, -1},
	{1, 3, 11, 1, 6, 5, 1, 11, 6, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 11, 0, 11, 1, 1, 6, 5, 1, 11, 6, -1, -1, -1, -1},
	{0, 3, 11, 0, 5, 9, 0, 11, 5, 5, 11, 6, -1, -1, -1, -1},
	{5, 8, 11, 5, 9, 8, 5, 11, 6, -1, -1, -1, -1, -1, -1, -1},
	{4, 7, 8, 5, 10, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 4, 7, 0, 7, 3, 5, 10, 6, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 4, 7, 8, 5, 10, 6, -1, -1, -1, -1, -1, -1, -1},
	{1, 4, 3, 1, 9, 4, 3, 4, 7, 5, 10, 6, -1, -1, -1, -1},
	{1, 2, 6, 1, 6, 5, 4, 7, 8, -1, -1, -1, -1, -1, -1, -1},
	{0, 4, 7, 0, 7, 3, 1, 2, 6, 1, 6, 5, -1, -1, -1, -1},
	{0, 2, 5, 0, 5, 9, 2, 6, 5, 4, 7, 8, -1, -1, -1, -1},
	{2, 5, 9, 2, 6, 5, 2, 9, 3, 3, 4, 7, 3, 9, 4, -1},
	{2, 3, 11, 4, 7, 8, 5, 10, 6, -1, -1, -1, -1, -1, -1, -1},
	{0, 4, 7, 0, 7, 11, 0, 11, 2, 5, 10, 6, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 11, 4, 7, 8, 5, 10, 6, -1, -1, -1, -1},
	{1, 4, 11, 1, 9, 4, 1, 11, 2, 4, 7, 11, 5, 10, 6, -1},
	{1, 3, 11, 1, 6, 5, 1, 11, 6, 4, 7, 8, -1, -1, -1, -1},
	{0, 4, 7, 0, 7, 11, 0, 11, 1, 1, 6, 5, 1, 11, 6, -1},
	{0, 3, 11, 0, 5, 9, 0, 11, 5, 5, 11, 6, 4, 7, 8, -1},
	{4, 7, 11, 4, 11, 9, 5, 9, 6, 6, 9, 11, -1, -1, -1, -1},
	{4, 9, 10, 4, 10, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 4, 9, 10, 4, 10, 6, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 10, 0, 10, 4, 4, 10, 6, -1, -1, -1, -1, -1, -1, -1},
	{1, 4, 8, 1, 6, 4, 1, 8, 3, 1, 10, 6, -1, -1, -1, -1},
	{1, 2, 6, 1, 4, 9, 1, 6, 4, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 1, 2, 6, 1, 4, 9, 1, 6, 4, -1, -1, -1, -1},
	{0, 2, 6, 0, 6, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{2, 6, 3, 3, 4, 8, 3, 6, 4, -1, -1, -1, -1, -1, -1, -1},
	{2, 3, 11, 4, 9, 10, 4, 10, 6, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 11, 0, 11, 2, 4, 9, 10, 4, 10, 6, -1, -1, -1, -1},
	{0, 1, 10, 0, 10, 4, 4, 10, 6, 2, 3, 11, -1, -1, -1, -1},
	{1, 4, 8, 1, 6, 4, 1, 8, 11, 1, 10, 6, 1, 11, 2, -1},
	{1, 3, 11, 1, 4, 9, 1, 6, 4, 1, 11, 6, -1, -1, -1, -1},
	{0, 8, 11, 0, 11, 1, 1, 4, 9, 1, 6, 4, 1, 11, 6, -1},
	{0, 3, 11, 0, 11, 4, 4, 11, 6, -1, -1, -1, -1, -1, -1, -1},
	{4, 8, 11, 4, 11, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{6, 7, 8, 6, 8, 9, 6, 9, 10, -1, -1, -1, -1, -1, -1, -1},
	{0, 9, 10, 0, 10, 3, 3, 6, 7, 3, 10, 6, -1, -1, -1, -1},
	{0, 1, 10, 0, 7, 8, 0, 10, 7, 6, 7, 10, -1, -1, -1, -1},
	{1, 6, 3, 1, 10, 6, 3, 6, 7, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 6, 1, 6, 8, 1, 8, 9, 6, 7, 8, -1, -1, -1, -1},
	{0, 9, 3, 1, 2, 6, 1, 6, 9, 3, 6, 7, 3, 9, 6, -1},
	{0, 2, 7, 0, 7, 8, 2, 6, 7, -1, -1, -1, -1, -1, -1, -1},
	{2, 6, 7, 2, 7, 3, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{2, 3, 11, 6, 7, 8, 6, 8, 9, 6, 9, 10, -1, -1, -1, -1},
	{0, 7, 11, 0, 9, 10, 0, 10, 7, 0, 11, 2, 6, 7, 10, -1},
	{0, 1, 10, 0, 7, 8, 0, 10, 7, 6, 7, 10, 2, 3, 11, -1},
	{1, 6, 7, 1, 7, 11, 1, 10, 6, 1, 11, 2, -1, -1, -1, -1},
	{1, 3, 11, 1, 6, 8, 1, 8, 9, 1, 11, 6, 6, 7, 8, -1},
	{0, 9, 1, 6, 7, 11, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 3, 11, 0, 6, 7, 0, 7, 8, 0, 11, 6, -1, -1, -1, -1},
	{6, 7, 11, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{6, 11, 7, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 6, 11, 7, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 6, 11, 7, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 8, 3, 1, 9, 8, 6, 11, 7, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 10, 6, 11, 7, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 1, 2, 10, 6, 11, 7, -1, -1, -1, -1, -1, -1, -1},
	{0, 2, 10, 0, 10, 9, 6, 11, 7, -1, -1, -1, -1, -1, -1, -1},
	{2, 8, 3, 2, 9, 8, 2, 10, 9, 6, 11, 7, -1, -1, -1, -1},
	{2, 3, 7, 2, 7, 6, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 7, 2, 0, 8, 7, 2, 7, 6, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 7, 2, 7, 6, -1, -1, -1, -1, -1, -1, -1},
	{1, 8, 2, 1, 9, 8, 2, 7, 6, 2, 8, 7, -1, -1, -1, -1},
	{1, 3, 6, 1, 6, 10, 3, 7, 6, -1, -1, -1, -1, -1, -1, -1},
	{0, 7, 10, 0, 8, 7, 0, 10, 1, 6, 10, 7, -1, -1, -1, -1},
	{0, 3, 7, 0, 7, 9, 6, 9, 7, 6, 10, 9, -1, -1, -1, -1},
	{6, 8, 7, 6, 9, 8, 6, 10, 9, -1, -1, -1, -1, -1, -1, -1},
	{4, 6, 11, 4, 11, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 4, 11, 0, 11, 3, 4, 6, 11, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 4, 6, 11, 4, 11, 8, -1, -1, -1, -1, -1, -1, -1},
	{1, 4, 6, 1, 6, 11, 1, 9, 4, 1, 11, 3, -1, -1, -1, -1},
	{1, 2, 10, 4, 6, 11, 4, 11, 8, -1, -1, -1, -1, -1, -1, -1},
	{0, 4, 11, 0, 11, 3, 4, 6, 11, 1, 2, 10, -1, -1, -1, -1},
	{0, 2, 10, 0, 10, 9, 4, 6, 11, 4, 11, 8, -1, -1, -1, -1},
	{2, 9, 3, 2, 10, 9, 3, 4, 11, 3, 9, 4, 4, 6, 11, -1},
	{2, 3, 8, 2, 8, 6, 4, 6, 8, -1, -1, -1, -1, -1, -1, -1},
	{0, 4, 6, 0, 6, 2, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 8, 2, 8, 6, 4, 6, 8, -1, -1, -1, -1},
	{1, 4, 6, 1, 6, 2, 1, 9, 4, -1, -1, -1, -1, -1, -1, -1},
	{1, 3, 8, 1, 4, 6, 1, 6, 10, 1, 8, 4, -1, -1, -1, -1},
	{0, 4, 10, 0, 10, 1, 4, 6, 10, -1, -1, -1, -1, -1, -1, -1},
	{0, 3, 10, 0, 10, 9, 3, 4, 6, 3, 6, 10, 3, 8, 4, -1},
	{4, 6, 10, 4, 10, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{4, 9, 5, 6, 11, 7, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 4, 9, 5, 6, 11, 7, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 4, 6, 11, 7, -1, -1, -1, -1, -1, -1, -1},
	{1, 4, 8, 1, 5, 4, 1, 8, 3, 6, 11, 7, -1, -1, -1, -1},
	{1, 2, 10, 4, 9, 5, 6, 11, 7, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 1, 2, 10, 4, 9, 5, 6, 11, 7, -1, -1, -1, -1},
	{0, 2, 10, 0, 5, 4, 0, 10, 5, 6, 11, 7, -1, -1, -1, -1},
	{2, 5, 8, 2, 8, 3, 2, 10, 5, 4, 8, 5, 6, 11, 7, -1},
	{2, 3, 7, 2, 7, 6, 4, 9, 5, -1, -1, -1, -1, -1, -1, -1},
	{0, 7, 2, 0, 8, 7, 2, 7, 6, 4, 9, 5, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 4, 2, 3, 7, 2, 7, 6, -1, -1, -1, -1},
	{1, 4, 8, 1, 5, 4, 1, 8, 2, 2, 7, 6, 2, 8, 7, -1},
	{1, 3, 6, 1, 6, 10, 3, 7, 6, 4, 9, 5, -1, -1, -1, -1},
	{0, 7, 10, 0, 8, 7, 0, 10, 1, 6, 10, 7, 4, 9, 5, -1},
	{0, 3, 7, 0, 5, 4, 0, 7, 10, 0, 10, 5, 6, 10, 7, -1},
	{4, 8, 10, 4, 10, 5, 6, 10, 7, 7, 10, 8, -1, -1, -1, -1},
	{5, 6, 11, 5, 8, 9, 5, 11, 8, -1, -1, -1, -1, -1, -1, -1},
	{0, 5, 11, 0, 9, 5, 0, 11, 3, 5, 6, 11, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 11, 0, 11, 8, 5, 6, 11, -1, -1, -1, -1},
	{1, 5, 6, 1, 6, 11, 1, 11, 3, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 10, 5, 6, 11, 5, 8, 9, 5, 11, 8, -1, -1, -1, -1},
	{0, 5, 11, 0, 9, 5, 0, 11, 3, 5, 6, 11, 1, 2, 10, -1},
	{0, 2, 10, 0, 5, 11, 0, 10, 5, 0, 11, 8, 5, 6, 11, -1},
	{2, 5, 3, 2, 10, 5, 3, 5, 11, 5, 6, 11, -1, -1, -1, -1},
	{2, 3, 8, 2, 5, 6, 2, 8, 9, 2, 9, 5, -1, -1, -1, -1},
	{0, 5, 2, 0, 9, 5, 2, 5, 6, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 5, 0, 5, 8, 2, 3, 8, 2, 8, 6, 5, 6, 8, -1},
	{1, 5, 6, 1, 6, 2, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 3, 8, 1, 6, 10, 1, 8, 6, 5, 6, 8, 5, 8, 9, -1},
	{0, 5, 6, 0, 6, 10, 0, 9, 5, 0, 10, 1, -1, -1, -1, -1},
	{0, 3, 8, 5, 6, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{5, 6, 10, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{5, 10, 11, 5, 11, 7, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 5, 10, 11, 5, 11, 7, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 5, 10, 11, 5, 11, 7, -1, -1, -1, -1, -1, -1, -1},
	{1, 8, 3, 1, 9, 8, 5, 10, 11, 5, 11, 7, -1, -1, -1, -1},
	{1, 2, 11, 1, 11, 5, 5, 11, 7, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 1, 2, 11, 1, 11, 5, 5, 11, 7, -1, -1, -1, -1},
	{0, 2, 11, 0, 5, 9, 0, 7, 5, 0, 11, 7, -1, -1, -1, -1},
	{2, 5, 9, 2, 7, 5, 2, 8, 3, 2, 9, 8, 2, 11, 7, -1},
	{2, 3, 7, 2, 5, 10, 2, 7, 5, -1, -1, -1, -1, -1, -1, -1},
	{0, 5, 10, 0, 7, 5, 0, 8, 7, 0, 10, 2, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 7, 2, 5, 10, 2, 7, 5, -1, -1, -1, -1},
	{1, 8, 2, 1, 9, 8, 2, 5, 10, 2, 7, 5, 2, 8, 7, -1},
	{1, 3, 7, 1, 7, 5, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 5, 1, 0, 7, 5, 0, 8, 7, -1, -1, -1, -1, -1, -1, -1},
	{0, 3, 7, 0, 5, 9, 0, 7, 5, -1, -1, -1, -1, -1, -1, -1},
	{5, 8, 7, 5, 9, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{4, 5, 10, 4, 10, 11, 4, 11, 8, -1, -1, -1, -1, -1, -1, -1},
	{0, 4, 5, 0, 5, 10, 0, 10, 11, 0, 11, 3, -1, -1, -1, -1},
	{0, 1, 9, 4, 5, 10, 4, 10, 11, 4, 11, 8, -1, -1, -1, -1},
	{1, 4, 11, 1, 9, 4, 1, 11, 3, 4, 5, 10, 4, 10, 11, -1},
	{1, 2, 11, 1, 4, 5, 1, 8, 4, 1, 11, 8, -1, -1, -1, -1},
	{0, 4, 5, 0, 5, 11, 0, 11, 3, 1, 2, 11, 1, 11, 5, -1},
	{0, 2, 11, 0, 5, 9, 0, 11, 5, 4, 5, 8, 5, 11, 8, -1},
	{2, 11, 3, 4, 5, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{2, 3, 8, 2, 5, 10, 2, 8, 5, 4, 5, 8, -1, -1, -1, -1},
	{0, 4, 5, 0, 5, 10, 0, 10, 2, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 9, 2, 3, 8, 2, 5, 10, 2, 8, 5, 4, 5, 8, -1},
	{1, 4, 2, 1, 9, 4, 2, 4, 10, 4, 5, 10, -1, -1, -1, -1},
	{1, 3, 8, 1, 4, 5, 1, 8, 4, -1, -1, -1, -1, -1, -1, -1},
	{0, 4, 5, 0, 5, 1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 3, 5, 0, 5, 9, 3, 4, 5, 3, 8, 4, -1, -1, -1, -1},
	{4, 5, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{4, 9, 10, 4, 10, 11, 4, 11, 7, -1, -1, -1, -1, -1, -1, -1},
	{0, 8, 3, 4, 9, 10, 4, 10, 11, 4, 11, 7, -1, -1, -1, -1},
	{0, 1, 10, 0, 7, 4, 0, 10, 11, 0, 11, 7, -1, -1, -1, -1},
	{1, 4, 8, 1, 8, 3, 1, 10, 11, 1, 11, 4, 4, 11, 7, -1},
	{1, 2, 11, 1, 4, 9, 1, 11, 4, 4, 11, 7, -1, -1, -1, -1},
	{0, 8, 3, 1, 2, 11, 1, 4, 9, 1, 11, 4, 4, 11, 7, -1},
	{0, 2, 11, 0, 7, 4, 0, 11, 7, -1, -1, -1, -1, -1, -1, -1},
	{2, 4, 8, 2, 7, 4, 2, 8, 3, 2, 11, 7, -1, -1, -1, -1},
	{2, 3, 7, 2, 7, 10, 4, 9, 10, 4, 10, 7, -1, -1, -1, -1},
	{0, 7, 10, 0, 8, 7, 0, 10, 2, 4, 9, 10, 4, 10, 7, -1},
	{0, 1, 10, 0, 7, 4, 0, 10, 7, 2, 3, 7, 2, 7, 10, -1},
	{1, 10, 2, 4, 8, 7, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 3, 4, 1, 4, 9, 3, 7, 4, -1, -1, -1, -1, -1, -1, -1},
	{0, 7, 1, 0, 8, 7, 1, 4, 9, 1, 7, 4, -1, -1, -1, -1},
	{0, 3, 7, 0, 7, 4, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{4, 8, 7, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{8, 9, 10, 8, 10, 11, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 9, 10, 0, 10, 11, 0, 11, 3, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 10, 0, 10, 11, 0, 11, 8, -1, -1, -1, -1, -1, -1, -1},
	{1, 10, 11, 1, 11, 3, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 2, 11, 1, 8, 9, 1, 11, 8, -1, -1, -1, -1, -1, -1, -1},
	{0, 9, 11, 0, 11, 3, 1, 2, 11, 1, 11, 9, -1, -1, -1, -1},
	{0, 2, 11, 0, 11, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{2, 11, 3, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{2, 3, 8, 2, 8, 9, 2, 9, 10, -1, -1, -1, -1, -1, -1, -1},
	{0, 9, 10, 0, 10, 2, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 1, 10, 0, 10, 8, 2, 3, 8, 2, 8, 10, -1, -1, -1, -1},
	{1, 10, 2, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{1, 3, 8, 1, 8, 9, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 9, 1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{0, 3, 8, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
	{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1},
}

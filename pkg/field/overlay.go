package field

// Overlay is a sparse set of additive density deltas for one chunk, keyed by
// lattice index. Most chunks are never edited, so the map is only allocated
// on the first Add. The nil *Overlay reads as empty.
type Overlay struct {
	deltas map[int]float32
}

// Add accumulates delta at lattice index i.
func (o *Overlay) Add(i int, delta float32) {
	if o.deltas == nil {
		o.deltas = make(map[int]float32)
	}
	o.deltas[i] += delta
}

// At returns the accumulated delta at lattice index i.
func (o *Overlay) At(i int) float32 {
	if o == nil {
		return 0
	}
	return o.deltas[i]
}

// Len returns the number of edited lattice points.
func (o *Overlay) Len() int {
	if o == nil {
		return 0
	}
	return len(o.deltas)
}

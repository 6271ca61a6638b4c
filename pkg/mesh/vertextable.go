package mesh

import (
	"errors"
	"fmt"
)

// ErrTableFull is returned when a vertex table has no free slot left. It
// means the table was sized too small for the chunk and is not recoverable
// by retrying.
var ErrTableFull = errors.New("mesh: vertex table full")

type slot struct {
	key   uint32
	index uint32
	used  bool
}

// VertexTable maps edge keys to vertex indices with open addressing and
// linear probing. Capacity is fixed at construction and rounded up to a
// power of two. It keeps the longest probe sequence seen since the last
// Reset so lookups of absent keys can stop early.
type VertexTable struct {
	slots    []slot
	mask     uint32
	count    int
	maxProbe int
}

// NewVertexTable creates a table with at least capacity slots.
func NewVertexTable(capacity int) *VertexTable {
	n := 1
	for n < capacity {
		n <<= 1
	}
	return &VertexTable{
		slots: make([]slot, n),
		mask:  uint32(n - 1),
	}
}

// Cap returns the number of slots.
func (t *VertexTable) Cap() int {
	return len(t.slots)
}

// Len returns the number of stored keys.
func (t *VertexTable) Len() int {
	return t.count
}

// MaxProbe returns the high-water probe distance since the last Reset.
func (t *VertexTable) MaxProbe() int {
	return t.maxProbe
}

// Reset empties the table, keeping its storage.
func (t *VertexTable) Reset() {
	clear(t.slots)
	t.count = 0
	t.maxProbe = 0
}

func (t *VertexTable) home(key uint32) uint32 {
	h := key * 0x9E3779B1
	h ^= h >> 15
	return h & t.mask
}

// Lookup returns the index stored for key.
func (t *VertexTable) Lookup(key uint32) (uint32, bool) {
	i := t.home(key)
	for probe := 0; probe <= t.maxProbe; probe++ {
		s := &t.slots[i]
		if !s.used {
			return 0, false
		}
		if s.key == key {
			return s.index, true
		}
		i = (i + 1) & t.mask
	}
	return 0, false
}

// GetOrInsert returns the index stored for key, or stores next and returns
// it. hit reports whether key was already present.
func (t *VertexTable) GetOrInsert(key, next uint32) (index uint32, hit bool, err error) {
	i := t.home(key)
	for probe := 0; probe < len(t.slots); probe++ {
		s := &t.slots[i]
		if !s.used {
			*s = slot{key: key, index: next, used: true}
			t.count++
			if probe > t.maxProbe {
				t.maxProbe = probe
			}
			return next, false, nil
		}
		if s.key == key {
			return s.index, true, nil
		}
		i = (i + 1) & t.mask
	}
	return 0, false, fmt.Errorf("%w: %d slots", ErrTableFull, len(t.slots))
}

package terrain

// Handle refers to a value in a slotMap. A handle whose slot has been
// reused since it was issued is stale and resolves to nothing.
type Handle struct {
	index uint32
	gen   uint32
}

type slotEntry[T any] struct {
	val  T
	gen  uint32
	live bool
}

// slotMap stores values in a dense slice with O(1) insert and remove.
// Removed slots go on a free list and bump their generation, so handles
// stay valid across unrelated removals without any remapping.
type slotMap[T any] struct {
	slots []slotEntry[T]
	free  []uint32
	count int
}

func (s *slotMap[T]) Insert(v T) Handle {
	var i uint32
	if n := len(s.free); n > 0 {
		i = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		i = uint32(len(s.slots))
		s.slots = append(s.slots, slotEntry[T]{})
	}
	e := &s.slots[i]
	e.val = v
	e.live = true
	s.count++
	return Handle{index: i, gen: e.gen}
}

// Get returns a pointer to the value for h. The pointer is invalidated by
// the next Insert.
func (s *slotMap[T]) Get(h Handle) (*T, bool) {
	if int(h.index) >= len(s.slots) {
		return nil, false
	}
	e := &s.slots[h.index]
	if !e.live || e.gen != h.gen {
		return nil, false
	}
	return &e.val, true
}

func (s *slotMap[T]) Remove(h Handle) bool {
	if _, ok := s.Get(h); !ok {
		return false
	}
	e := &s.slots[h.index]
	var zero T
	e.val = zero
	e.live = false
	e.gen++
	s.free = append(s.free, h.index)
	s.count--
	return true
}

func (s *slotMap[T]) Len() int {
	return s.count
}

// Each calls fn for every live value in slot order. fn must not insert.
func (s *slotMap[T]) Each(fn func(Handle, *T)) {
	for i := range s.slots {
		e := &s.slots[i]
		if e.live {
			fn(Handle{index: uint32(i), gen: e.gen}, &e.val)
		}
	}
}

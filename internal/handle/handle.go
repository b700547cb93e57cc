// Package handle implements generational slot tables.
//
// A Handle packs a slot index in its low 16 bits and the slot's generation
// in its high 16 bits. Removing an entry bumps the slot generation, so a
// handle to a freed slot stays invalid after the slot is reused. The zero
// handle is never issued.
package handle

// Handle is an opaque reference into a Table.
type Handle uint32

const (
	indexBits = 16
	indexMask = 1<<indexBits - 1

	// MaxEntries is the largest number of live entries a table holds.
	MaxEntries = indexMask
)

// Index returns the slot index encoded in h.
func (h Handle) Index() int { return int(h & indexMask) }

// Generation returns the generation encoded in h.
func (h Handle) Generation() uint16 { return uint16(h >> indexBits) }

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h == 0 }

func makeHandle(index int, gen uint16) Handle {
	return Handle(uint32(gen)<<indexBits | uint32(index))
}

type slot[T any] struct {
	value T
	gen   uint16
	live  bool
}

// Table stores values addressed by generational handles.
// The zero value is an empty table ready to use.
type Table[T any] struct {
	slots []slot[T]
	free  []int
	live  int
}

// Insert stores v and returns its handle. It reports false when the table
// is full.
func (t *Table[T]) Insert(v T) (Handle, bool) {
	var idx int
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		if len(t.slots) > MaxEntries {
			return 0, false
		}
		idx = len(t.slots)
		// Generations start at 1 so no slot ever encodes the zero handle.
		t.slots = append(t.slots, slot[T]{gen: 1})
	}
	s := &t.slots[idx]
	s.value = v
	s.live = true
	t.live++
	return makeHandle(idx, s.gen), true
}

// Get returns the value for h. It reports false for the zero handle, a
// removed entry or a handle from an earlier generation of the slot.
func (t *Table[T]) Get(h Handle) (T, bool) {
	var zero T
	s := t.lookup(h)
	if s == nil {
		return zero, false
	}
	return s.value, true
}

// Remove deletes the entry for h and returns its value.
// Removing a stale handle is a no-op.
func (t *Table[T]) Remove(h Handle) (T, bool) {
	var zero T
	s := t.lookup(h)
	if s == nil {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	t.free = append(t.free, h.Index())
	t.live--
	return v, true
}

// Len returns the number of live entries.
func (t *Table[T]) Len() int { return t.live }

// Each calls fn for every live entry in slot order.
func (t *Table[T]) Each(fn func(Handle, T)) {
	for i := range t.slots {
		if s := &t.slots[i]; s.live {
			fn(makeHandle(i, s.gen), s.value)
		}
	}
}

func (t *Table[T]) lookup(h Handle) *slot[T] {
	if h == 0 {
		return nil
	}
	idx := h.Index()
	if idx >= len(t.slots) {
		return nil
	}
	s := &t.slots[idx]
	if !s.live || s.gen != h.Generation() {
		return nil
	}
	return s
}

package ecs

// ComponentType is the closed tag used to route per-type operations through the
// Registry without reflection.
type ComponentType uint8

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Unset(e Entity)
	Has(e Entity) bool
}

type entry[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Store is a sparse array parallel to the allocator pool. A lookup only
// succeeds when the slot is occupied and stamped with the handle's generation.
type Store[T any] struct {
	slots []entry[T]
	count int
}

func NewStore[T any](capacity int) *Store[T] {
	return &Store[T]{slots: make([]entry[T], capacity)}
}

// Set overwrites the slot at e.Index and stamps it with e.Generation.
// Callers must only pass handles from the current allocation.
func (s *Store[T]) Set(e Entity, v T) {
	if int(e.Index) >= len(s.slots) {
		panic("ecs: entity index out of store range")
	}
	slot := &s.slots[e.Index]
	if !slot.occupied {
		s.count++
	}
	slot.value = v
	slot.generation = e.Generation
	slot.occupied = true
}

// Get returns a pointer into the store. The pointer is only valid until the
// slot is next set or unset.
func (s *Store[T]) Get(e Entity) (*T, bool) {
	if !s.Has(e) {
		return nil, false
	}
	return &s.slots[e.Index].value, true
}

func (s *Store[T]) Has(e Entity) bool {
	if int(e.Index) >= len(s.slots) {
		return false
	}
	slot := &s.slots[e.Index]
	return slot.occupied && slot.generation == e.Generation
}

// Unset clears the slot at e.Index regardless of its stamped generation.
func (s *Store[T]) Unset(e Entity) {
	if int(e.Index) >= len(s.slots) {
		return
	}
	slot := &s.slots[e.Index]
	if slot.occupied {
		s.count--
	}
	*slot = entry[T]{}
}

func (s *Store[T]) Len() int { return s.count }

// Each visits occupied slots in index order. Returning false stops iteration.
func (s *Store[T]) Each(fn func(Entity, *T) bool) {
	for i := range s.slots {
		slot := &s.slots[i]
		if !slot.occupied {
			continue
		}
		if !fn(Entity{Index: uint32(i), Generation: slot.generation}, &slot.value) {
			return
		}
	}
}

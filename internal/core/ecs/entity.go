package ecs

import (
	"errors"
	"fmt"
	"slices"
)

// ErrPoolExhausted is returned when every slot of a fixed-capacity pool is live.
// The pool never grows; callers treat this as fatal.
var ErrPoolExhausted = errors.New("ecs: entity pool exhausted")

// Entity is a generational handle. Index addresses a slot in the pool and
// Generation must match the slot's stamp for the handle to resolve.
type Entity struct {
	Index      uint32
	Generation uint32
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d:%d)", e.Index, e.Generation)
}

type slot struct {
	live       bool
	generation uint32
}

// Allocator hands out entity handles from a fixed-size pool. The generation of a
// slot is advanced on allocation, so a handle issued before a deallocate can never
// resolve again once the index is reused.
type Allocator struct {
	slots []slot
	free  []uint32 // kept sorted ascending; allocation pops the lowest index
	live  int
}

func NewAllocator(capacity int) *Allocator {
	a := &Allocator{
		slots: make([]slot, capacity),
		free:  make([]uint32, capacity),
	}
	for i := range a.free {
		a.free[i] = uint32(i)
	}
	return a
}

// Allocate pops the lowest free index and stamps the returned handle with the
// slot's generation before it is advanced.
func (a *Allocator) Allocate() (Entity, error) {
	if len(a.free) == 0 {
		return Entity{}, fmt.Errorf("allocate (capacity %d): %w", len(a.slots), ErrPoolExhausted)
	}
	idx := a.free[0]
	a.free = a.free[1:]

	s := &a.slots[idx]
	gen := s.generation
	s.generation++
	s.live = true
	a.live++
	return Entity{Index: idx, Generation: gen}, nil
}

// Deallocate releases the slot held by e. It returns false when the slot is not
// live or e is stale (its generation is not the one currently issued).
// The stored generation is left untouched.
func (a *Allocator) Deallocate(e Entity) bool {
	if !a.Alive(e) {
		return false
	}
	a.slots[e.Index].live = false
	pos, _ := slices.BinarySearch(a.free, e.Index)
	a.free = slices.Insert(a.free, pos, e.Index)
	a.live--
	return true
}

// Alive reports whether e is the handle currently issued for its slot.
func (a *Allocator) Alive(e Entity) bool {
	if int(e.Index) >= len(a.slots) {
		return false
	}
	s := a.slots[e.Index]
	return s.live && s.generation == e.Generation+1
}

func (a *Allocator) Capacity() int { return len(a.slots) }
func (a *Allocator) Live() int     { return a.live }
func (a *Allocator) Free() int     { return len(a.free) }

package ecs

// World is the top-level ECS container. It owns the fixed-capacity allocator,
// the component registry, and a deferred destruction queue drained by
// CleanupSystem at tick end. World is not safe for concurrent use; the game
// world wraps it in a lock.
type World struct {
	alloc        *Allocator
	registry     *Registry
	destroyQueue []Entity
}

func NewWorld(capacity int) *World {
	return &World{
		alloc:        NewAllocator(capacity),
		registry:     NewRegistry(),
		destroyQueue: make([]Entity, 0, 64),
	}
}

func (w *World) Allocator() *Allocator { return w.alloc }
func (w *World) Registry() *Registry   { return w.registry }
func (w *World) Capacity() int         { return w.alloc.Capacity() }

func (w *World) CreateEntity() (Entity, error) {
	return w.alloc.Allocate()
}

func (w *World) Alive(e Entity) bool {
	return w.alloc.Alive(e)
}

// DestroyEntity unsets e from every store, then releases its slot.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.alloc.Alive(e) {
		return false
	}
	w.registry.RemoveAll(e)
	return w.alloc.Deallocate(e)
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(e Entity) {
	w.destroyQueue = append(w.destroyQueue, e)
}

// FlushDestroyQueue destroys all queued entities and returns how many were
// actually released. Stale or duplicate entries are skipped.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, e := range w.destroyQueue {
		if w.DestroyEntity(e) {
			n++
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}

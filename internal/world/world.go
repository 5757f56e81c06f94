package world

import (
	"fmt"
	"sync"

	"github.com/walter-rpg/walter/internal/component"
	"github.com/walter-rpg/walter/internal/core/ecs"
)

// DefaultCapacity is the pool size used when none is configured.
const DefaultCapacity = 256

// Stores exposes the typed component tables. A *Stores is only handed out
// inside Read or Write and must not be retained past the callback.
type Stores struct {
	Positions  *ecs.Store[component.Position]
	Velocities *ecs.Store[component.Velocity]
	Fighters   *ecs.Store[component.Fighter]
	Sprites    *ecs.Store[component.Sprite]
	Playables  *ecs.Store[component.Playable]
}

// World owns the entity allocator and every component store. Many readers may
// hold a consistent view at once; any structural change or component write
// takes the lock exclusively.
type World struct {
	mu     sync.RWMutex
	core   *ecs.World
	stores Stores
}

func New(capacity int) *World {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	w := &World{
		core: ecs.NewWorld(capacity),
		stores: Stores{
			Positions:  ecs.NewStore[component.Position](capacity),
			Velocities: ecs.NewStore[component.Velocity](capacity),
			Fighters:   ecs.NewStore[component.Fighter](capacity),
			Sprites:    ecs.NewStore[component.Sprite](capacity),
			Playables:  ecs.NewStore[component.Playable](capacity),
		},
	}
	reg := w.core.Registry()
	reg.Register(component.TypePosition, w.stores.Positions)
	reg.Register(component.TypeVelocity, w.stores.Velocities)
	reg.Register(component.TypeFighter, w.stores.Fighters)
	reg.Register(component.TypeSprite, w.stores.Sprites)
	reg.Register(component.TypePlayable, w.stores.Playables)
	return w
}

func (w *World) Capacity() int { return w.core.Capacity() }

// Read runs fn under the shared lock. fn must not mutate components.
func (w *World) Read(fn func(s *Stores)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	fn(&w.stores)
}

// Write runs fn under the exclusive lock.
func (w *World) Write(fn func(s *Stores)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.stores)
}

// NewEntity allocates a handle without attaching components.
func (w *World) NewEntity() (ecs.Entity, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.core.CreateEntity()
}

// Partial collects component values for BuildEntity.
type Partial struct {
	components []component.Component
}

func NewPartial() *Partial { return &Partial{} }

func (p *Partial) With(c component.Component) *Partial {
	p.components = append(p.components, c)
	return p
}

// BuildEntity allocates a handle and routes each component of p to its store.
func (w *World) BuildEntity(p *Partial) (ecs.Entity, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, err := w.core.CreateEntity()
	if err != nil {
		return ecs.Entity{}, err
	}
	for _, c := range p.components {
		if err := w.attach(e, c); err != nil {
			w.core.DestroyEntity(e)
			return ecs.Entity{}, err
		}
	}
	return e, nil
}

// Attach adds or replaces a single component on a live entity.
func (w *World) Attach(e ecs.Entity, c component.Component) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.core.Alive(e) {
		return fmt.Errorf("attach %s to %s: entity not alive", component.TypeName(c.ComponentType()), e)
	}
	return w.attach(e, c)
}

func (w *World) attach(e ecs.Entity, c component.Component) error {
	switch v := c.(type) {
	case component.Position:
		w.stores.Positions.Set(e, v)
	case component.Velocity:
		w.stores.Velocities.Set(e, v)
	case component.Fighter:
		w.stores.Fighters.Set(e, v)
	case component.Sprite:
		w.stores.Sprites.Set(e, v)
	case component.Playable:
		w.stores.Playables.Set(e, v)
	default:
		return fmt.Errorf("attach to %s: unsupported component %T", e, c)
	}
	return nil
}

// DeleteEntity unsets e from every store, then deallocates it.
func (w *World) DeleteEntity(e ecs.Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.core.DestroyEntity(e)
}

// RemoveComponent unsets a single tagged component. It returns false for tags
// the world does not know.
func (w *World) RemoveComponent(e ecs.Entity, t ecs.ComponentType) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.core.Registry().Remove(t, e)
}

func (w *World) HasComponent(e ecs.Entity, t ecs.ComponentType) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.core.Registry().Has(t, e)
}

func (w *World) Alive(e ecs.Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.core.Alive(e)
}

func (w *World) LiveEntities() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.core.Allocator().Live()
}

// Fighter returns a copy of e's fighter component. The copy shares the
// read-only move list.
func (w *World) Fighter(e ecs.Entity) (component.Fighter, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	f, ok := w.stores.Fighters.Get(e)
	if !ok {
		return component.Fighter{}, false
	}
	return *f, true
}

// UpdateFighter runs fn on e's fighter under the exclusive lock.
func (w *World) UpdateFighter(e ecs.Entity, fn func(f *component.Fighter)) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	f, ok := w.stores.Fighters.Get(e)
	if !ok {
		return false
	}
	fn(f)
	return true
}

func (w *World) Position(e ecs.Entity) (component.Position, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.stores.Positions.Get(e)
	if !ok {
		return component.Position{}, false
	}
	return *p, true
}

// Integrate advances every entity with both Position and Velocity by dt seconds.
func (w *World) Integrate(dt float64) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	ecs.Each2(w.stores.Positions, w.stores.Velocities, func(_ ecs.Entity, p *component.Position, v *component.Velocity) {
		p.X += v.DX * dt
		p.Y += v.DY * dt
		n++
	})
	return n
}

// MarkForDestruction queues e for the next FlushDestroyQueue.
func (w *World) MarkForDestruction(e ecs.Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.core.MarkForDestruction(e)
}

func (w *World) FlushDestroyQueue() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.core.FlushDestroyQueue()
}

package ecs_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walter-rpg/walter/internal/core/ecs"
)

func TestAllocatorIssuesLowestFreeIndex(t *testing.T) {
	a := ecs.NewAllocator(4)
	for want := uint32(0); want < 4; want++ {
		e, err := a.Allocate()
		require.NoError(t, err)
		assert.Equal(t, want, e.Index)
		assert.Equal(t, uint32(0), e.Generation)
	}

	require.True(t, a.Deallocate(ecs.Entity{Index: 2, Generation: 0}))
	require.True(t, a.Deallocate(ecs.Entity{Index: 0, Generation: 0}))

	e, err := a.Allocate()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), e.Index)
	assert.Equal(t, uint32(1), e.Generation)
}

func TestAllocatorExhaustion(t *testing.T) {
	a := ecs.NewAllocator(2)
	_, err := a.Allocate()
	require.NoError(t, err)
	_, err = a.Allocate()
	require.NoError(t, err)

	_, err = a.Allocate()
	require.ErrorIs(t, err, ecs.ErrPoolExhausted)
	assert.Equal(t, 2, a.Live())
	assert.Equal(t, 0, a.Free())
}

func TestAllocatorDeallocateIsIdempotent(t *testing.T) {
	a := ecs.NewAllocator(1)
	e, err := a.Allocate()
	require.NoError(t, err)

	assert.True(t, a.Deallocate(e))
	assert.False(t, a.Deallocate(e))
	assert.Equal(t, 1, a.Free())
}

func TestAllocatorStaleHandleCannotReleaseReusedSlot(t *testing.T) {
	a := ecs.NewAllocator(1)
	old, _ := a.Allocate()
	require.True(t, a.Deallocate(old))
	fresh, err := a.Allocate()
	require.NoError(t, err)
	require.Equal(t, old.Index, fresh.Index)

	assert.False(t, a.Deallocate(old))
	assert.True(t, a.Alive(fresh))
	assert.False(t, a.Alive(old))
}

func TestStaleHandleAfterReuse(t *testing.T) {
	w := ecs.NewWorld(2)
	names := ecs.NewStore[string](2)
	w.Registry().Register(0, names)

	h0, _ := w.CreateEntity()
	h1, _ := w.CreateEntity()
	names.Set(h0, "h0")
	names.Set(h1, "h1")

	require.True(t, w.DestroyEntity(h0))
	h2, err := w.CreateEntity()
	require.NoError(t, err)
	require.Equal(t, h0.Index, h2.Index)
	require.NotEqual(t, h0, h2)
	names.Set(h2, "h2")

	_, ok := names.Get(h0)
	assert.False(t, ok, "stale handle must not resolve after reuse")
	v, ok := names.Get(h2)
	require.True(t, ok)
	assert.Equal(t, "h2", *v)
	v, ok = names.Get(h1)
	require.True(t, ok)
	assert.Equal(t, "h1", *v)
}

// Random allocate/deallocate sequences: live count stays within capacity and
// every released handle stays dead forever.
func TestAllocatorRandomSequences(t *testing.T) {
	const capacity = 16
	rng := rand.New(rand.NewSource(7))
	a := ecs.NewAllocator(capacity)
	store := ecs.NewStore[int](capacity)

	var live []ecs.Entity
	var dead []ecs.Entity
	for step := 0; step < 5000; step++ {
		if len(live) == 0 || (rng.Intn(2) == 0 && len(live) < capacity) {
			e, err := a.Allocate()
			require.NoError(t, err)
			store.Set(e, step)
			live = append(live, e)
		} else {
			i := rng.Intn(len(live))
			e := live[i]
			live = append(live[:i], live[i+1:]...)
			require.True(t, a.Deallocate(e))
			dead = append(dead, e)
		}
		require.LessOrEqual(t, a.Live(), capacity)
		require.Equal(t, len(live), a.Live())
	}

	for _, e := range live {
		assert.True(t, a.Alive(e))
	}
	for _, e := range dead {
		assert.False(t, a.Alive(e), "%s resurrected", e)
		if store.Has(e) {
			// only possible when the slot was never overwritten by a newer handle
			for _, l := range live {
				assert.NotEqual(t, l.Index, e.Index)
			}
		}
	}

	for len(live) < capacity {
		e, err := a.Allocate()
		require.NoError(t, err)
		live = append(live, e)
	}
	_, err := a.Allocate()
	assert.ErrorIs(t, err, ecs.ErrPoolExhausted)
}

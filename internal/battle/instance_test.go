package battle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walter-rpg/walter/internal/core/ecs"
)

func TestInstanceTransitions(t *testing.T) {
	ctx := context.Background()
	b := NewInstance("fsm", nil)
	assert.Equal(t, StateStarted, b.State())

	assert.Error(t, b.fire(ctx, evResume), "resume before begin")
	require.NoError(t, b.fire(ctx, evBegin))
	assert.Equal(t, StateAvailable, b.State())
	assert.Error(t, b.fire(ctx, evBegin), "begin only once")

	require.NoError(t, b.fire(ctx, evAwaitPlayer))
	assert.Equal(t, StateWaitingPlayer, b.State())
	require.NoError(t, b.fire(ctx, evQueue))
	assert.Equal(t, StateWaitingEvent, b.State())
	assert.Error(t, b.fire(ctx, evAwaitPlayer))
	require.NoError(t, b.fire(ctx, evResume))
	assert.Equal(t, StateAvailable, b.State())
}

func TestInstanceQueueFIFO(t *testing.T) {
	b := NewInstance("queue", nil)
	for i := uint32(0); i < 3; i++ {
		b.push(Action{Target: ecs.Entity{Index: i}})
	}
	assert.Equal(t, 3, b.Pending())
	for i := uint32(0); i < 3; i++ {
		a, ok := b.Pop()
		require.True(t, ok)
		assert.Equal(t, i, a.Target.Index)
	}
	_, ok := b.Pop()
	assert.False(t, ok)
	assert.Zero(t, b.Pending())
}

func TestInstanceAdvance(t *testing.T) {
	b := NewInstance("turns", nil)
	b.advance()
	assert.Zero(t, b.Turn(), "empty roster never advances")

	b.AddEntities(ecs.Entity{Index: 0}, ecs.Entity{Index: 1})
	b.advance()
	assert.Equal(t, 1, b.Turn())
	assert.Zero(t, b.Round())
	b.advance()
	assert.Equal(t, 0, b.Turn())
	assert.Equal(t, 1, b.Round())

	actor, ok := b.Actor()
	require.True(t, ok)
	assert.Equal(t, ecs.Entity{Index: 0}, actor)
}

func TestInstanceMessage(t *testing.T) {
	b := NewInstance("orcs", nil)
	b.WinMessage, b.LossMessage = "won", "lost"
	assert.Equal(t, "won", b.Message(OutcomeWin))
	assert.Equal(t, "lost", b.Message(OutcomeGameOver))
	assert.Empty(t, b.Message(OutcomeRetreat))
}

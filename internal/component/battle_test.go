package component_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walter-rpg/walter/internal/component"
)

func TestHealthStaysClamped(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	f := component.NewFighter("slime", 1, component.FactionEnemy, 50, 10, nil)

	for i := 0; i < 2000; i++ {
		x := rng.Intn(40)
		if rng.Intn(2) == 0 {
			f.DecreaseHealth(x)
		} else {
			f.IncreaseHealth(x)
		}
		require.GreaterOrEqual(t, f.HP, 0)
		require.LessOrEqual(t, f.HP, f.MaxHP)
		if f.HP == 0 {
			require.False(t, f.Alive())
		}
		if !f.Alive() {
			require.Equal(t, 0, f.HP, "healing must not lift a downed fighter")
			_, err := f.Revive(0.5)
			require.NoError(t, err)
		}
	}
}

func TestDownedStaysDownUntilRevive(t *testing.T) {
	f := component.NewFighter("hero", 1, component.FactionPlayer, 31, 0, nil)
	f.DecreaseHealth(100)
	assert.Equal(t, 0, f.HP)
	assert.False(t, f.Alive())

	f.IncreaseHealth(10)
	assert.Equal(t, 0, f.HP)
	assert.False(t, f.Alive())

	ok, err := f.Revive(0.5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, f.Alive())
	assert.Equal(t, 15, f.HP, "floor(31*0.5)")

	ok, err = f.Revive(1)
	require.NoError(t, err)
	assert.False(t, ok, "already up")
	assert.Equal(t, 15, f.HP)
}

func TestReviveFraction(t *testing.T) {
	for _, p := range []float64{0, -0.1, 1.01} {
		f := component.NewFighter("x", 1, component.FactionAlly, 10, 0, nil)
		f.DecreaseHealth(10)
		_, err := f.Revive(p)
		assert.ErrorIs(t, err, component.ErrReviveFraction, "p=%v", p)
		assert.False(t, f.Alive())
	}

	f := component.NewFighter("tiny", 1, component.FactionAlly, 1, 0, nil)
	f.DecreaseHealth(1)
	_, err := f.Revive(0.1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.HP, "revived fighters keep at least 1 hp")
}

func TestSPClampAndInfinite(t *testing.T) {
	f := component.NewFighter("mage", 1, component.FactionAlly, 10, 20, nil)
	f.DecreaseSP(25)
	assert.Equal(t, 0, f.SP)
	f.IncreaseSP(50)
	assert.Equal(t, 20, f.SP)

	f.InfiniteSP = true
	f.DecreaseSP(15)
	assert.Equal(t, 20, f.SP)
}

func TestCanAfford(t *testing.T) {
	f := component.NewFighter("knight", 1, component.FactionPlayer, 10, 5, nil)

	assert.True(t, f.CanAfford(&component.Move{SPCost: 5}))
	assert.False(t, f.CanAfford(&component.Move{SPCost: 6}))
	assert.True(t, f.CanAfford(&component.Move{HPCost: 9}))
	assert.False(t, f.CanAfford(&component.Move{HPCost: 10}), "hp cost must stay below current hp")

	f.InfiniteSP = true
	assert.True(t, f.CanAfford(&component.Move{SPCost: 600}))
}

func TestFactionSides(t *testing.T) {
	p, a, e, i := component.FactionPlayer, component.FactionAlly, component.FactionEnemy, component.FactionIndie
	assert.True(t, p.AlliedWith(a))
	assert.True(t, e.AlliedWith(e))
	assert.False(t, p.AlliedWith(e))
	assert.False(t, i.AlliedWith(i))
	assert.False(t, i.AlliedWith(p))
}

func TestParseTarget(t *testing.T) {
	cases := map[string]component.Target{
		"single:enemy": component.SingleEnemy,
		"single:ally":  component.SingleAlly,
		"Single:User":  component.SingleUser,
		"single:self":  component.SingleUser,
		"aoe:enemy":    component.AOEEnemy,
		"aoe:ally":     component.AOEAlly,
		" aoe:all ":    component.AOEAll,
	}
	for in, want := range cases {
		got, err := component.ParseTarget(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "aoe", "aoe:user", "single:all", "area:enemy"} {
		_, err := component.ParseTarget(bad)
		assert.ErrorIs(t, err, component.ErrInvalidTarget, bad)
	}
	assert.Equal(t, "aoe:all", component.AOEAll.String())
}

package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walter-rpg/walter/internal/component"
)

func fighter(name string, faction component.Faction, hp int, moves ...*component.Move) component.Fighter {
	f := component.NewFighter(name, 1, faction, hp, 50, moves)
	f.Attack, f.Defence, f.Support = 100, 100, 100
	return f
}

func TestStatFormulaNeutralVariation(t *testing.T) {
	m := &component.Move{Name: "Slam", HPPower: 120, Target: component.SingleEnemy, Accuracy: 1}
	src := fighter("a", component.FactionPlayer, 100, m)
	tgt := fighter("b", component.FactionEnemy, 200)

	roll := StatFormula{}.Resolve(&src, &tgt, m, &scripted{floats: []float64{0, 0.5}})
	assert.True(t, roll.Hit)
	assert.False(t, roll.Crit)
	assert.Equal(t, 120, roll.HPPower)
	assert.Zero(t, roll.SPPower)
}

func TestStatFormulaVariationBounds(t *testing.T) {
	m := &component.Move{Name: "Slam", HPPower: 120, Target: component.SingleEnemy, Accuracy: 1}
	src := fighter("a", component.FactionPlayer, 100, m)
	tgt := fighter("b", component.FactionEnemy, 200)

	for r := 0.0; r < 1; r += 0.01 {
		roll := StatFormula{}.Resolve(&src, &tgt, m, &scripted{floats: []float64{0, r}})
		require.True(t, roll.Hit)
		assert.GreaterOrEqual(t, roll.HPPower, 108, "r=%v", r)
		assert.LessOrEqual(t, roll.HPPower, 132, "r=%v", r)
	}
}

func TestStatFormulaMiss(t *testing.T) {
	m := &component.Move{Name: "Wild", HPPower: 50, Target: component.SingleEnemy, Accuracy: 0.5}
	src := fighter("a", component.FactionPlayer, 100, m)
	tgt := fighter("b", component.FactionEnemy, 200)

	rng := &scripted{floats: []float64{0.9, 0.5}}
	roll := StatFormula{}.Resolve(&src, &tgt, m, rng)
	assert.False(t, roll.Hit)
	assert.Zero(t, roll.HPPower)
	assert.Len(t, rng.floats, 1, "a miss stops drawing")
}

func TestStatFormulaCrit(t *testing.T) {
	m := &component.Move{Name: "Pierce", HPPower: 120, Target: component.SingleEnemy, Accuracy: 1, Crit: true}
	src := fighter("a", component.FactionPlayer, 100, m)
	tgt := fighter("b", component.FactionEnemy, 200)

	roll := StatFormula{}.Resolve(&src, &tgt, m, &scripted{floats: []float64{0, 0.05, 0.5}})
	assert.True(t, roll.Crit)
	assert.Equal(t, 180, roll.HPPower)

	roll = StatFormula{}.Resolve(&src, &tgt, m, &scripted{floats: []float64{0, 0.5, 0.5}})
	assert.False(t, roll.Crit)
	assert.Equal(t, 120, roll.HPPower)
}

func TestStatFormulaSupportScalesBySupport(t *testing.T) {
	m := &component.Move{Name: "Mend", HPPower: 40, Supporting: true, Target: component.SingleAlly, Accuracy: 1, Crit: true}
	src := fighter("a", component.FactionPlayer, 100, m)
	src.Support = 50
	tgt := fighter("b", component.FactionPlayer, 100)

	rng := &scripted{floats: []float64{0, 0.5}}
	roll := StatFormula{}.Resolve(&src, &tgt, m, rng)
	assert.Equal(t, 20, roll.HPPower)
	assert.False(t, roll.Crit, "supporting moves never crit")
}

func TestStatFormulaZeroDefence(t *testing.T) {
	m := &component.Move{Name: "Poke", HPPower: 30, Target: component.SingleEnemy, Accuracy: 1}
	src := fighter("a", component.FactionPlayer, 100, m)
	src.Attack = 2
	tgt := fighter("b", component.FactionEnemy, 100)
	tgt.Defence = 0

	roll := StatFormula{}.Resolve(&src, &tgt, m, &scripted{floats: []float64{0, 0.5}})
	assert.Equal(t, 60, roll.HPPower)
}

func TestStatFormulaExactProductsDoNotRoundUp(t *testing.T) {
	for _, tc := range []struct {
		attack, defence, power, want int
	}{
		{7, 25, 25, 7},
		{11, 5, 50, 110},
		{3, 10, 20, 6},
	} {
		m := &component.Move{Name: "Tap", HPPower: tc.power, Target: component.SingleEnemy, Accuracy: 1}
		src := fighter("a", component.FactionPlayer, 100, m)
		src.Attack = tc.attack
		tgt := fighter("b", component.FactionEnemy, 100)
		tgt.Defence = tc.defence

		roll := StatFormula{}.Resolve(&src, &tgt, m, &scripted{floats: []float64{0, 0.5}})
		assert.Equal(t, tc.want, roll.HPPower, "attack %d defence %d power %d", tc.attack, tc.defence, tc.power)
	}
}

func TestCalculateEffectCostOnMiss(t *testing.T) {
	m := &component.Move{Name: "Blast", HPCost: 5, SPCost: 10, HPPower: 50, Target: component.SingleEnemy, Accuracy: 0.1}
	src := fighter("a", component.FactionPlayer, 100, m)
	tgt := fighter("b", component.FactionEnemy, 100)

	res := CalculateEffect(StatFormula{}, &src, &tgt, m, &scripted{floats: []float64{0.9}}, true)
	assert.False(t, res.Hit)
	assert.Equal(t, 5, res.HPCost)
	assert.Equal(t, 10, res.SPCost)
	assert.Zero(t, res.HPPower)

	res = CalculateEffect(StatFormula{}, &src, &tgt, m, &scripted{floats: []float64{0.9}}, false)
	assert.Zero(t, res.HPCost)
	assert.Zero(t, res.SPCost)
}

func TestExecute(t *testing.T) {
	t.Run("damage clamps and downs", func(t *testing.T) {
		src := fighter("a", component.FactionPlayer, 100)
		tgt := fighter("b", component.FactionEnemy, 10)
		Execute(&src, &tgt, MoveResult{Hit: true, Damaging: true, HPPower: 50, SPPower: 80, SPCost: 5})
		assert.Equal(t, 0, tgt.HP)
		assert.Equal(t, 0, tgt.SP)
		assert.False(t, tgt.Alive())
		assert.Equal(t, 45, src.SP)
	})

	t.Run("heal caps at max", func(t *testing.T) {
		src := fighter("a", component.FactionPlayer, 100)
		tgt := fighter("b", component.FactionPlayer, 100)
		tgt.DecreaseHealth(30)
		Execute(&src, &tgt, MoveResult{Hit: true, HPPower: 50})
		assert.Equal(t, 100, tgt.HP)
	})

	t.Run("miss still charges", func(t *testing.T) {
		src := fighter("a", component.FactionPlayer, 100)
		tgt := fighter("b", component.FactionEnemy, 100)
		Execute(&src, &tgt, MoveResult{HPCost: 10, HPPower: 50, Damaging: true})
		assert.Equal(t, 90, src.HP)
		assert.Equal(t, 100, tgt.HP)
	})

	t.Run("self target", func(t *testing.T) {
		f := fighter("a", component.FactionPlayer, 100)
		f.DecreaseHealth(50)
		Execute(&f, &f, MoveResult{Hit: true, HPCost: 10, HPPower: 30})
		assert.Equal(t, 70, f.HP)
	})
}

package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/walter-rpg/walter/internal/battle"
	"github.com/walter-rpg/walter/internal/component"
)

// MoveContext holds pre-packed data for one move-effect calculation. Random
// draws are made on the Go side so a seeded source reproduces script results.
type MoveContext struct {
	SourceAttack  int
	SourceSupport int
	SourceCrit    float64
	TargetDefence int

	HPPower    int
	SPPower    int
	Accuracy   float64
	Supporting bool
	Crit       bool
	CritChance float64

	HitRoll       float64
	CritRoll      float64
	VariationRoll float64
}

// MoveRoll is returned by the Lua calc_move_effect function.
type MoveRoll struct {
	Hit     bool
	Crit    bool
	HPPower int
	SPPower int
}

// ResolveMove calls the Lua calc_move_effect function. Script failures resolve
// to a miss.
func (e *Engine) ResolveMove(ctx MoveContext) MoveRoll {
	fn := e.vm.GetGlobal("calc_move_effect")
	if fn == lua.LNil {
		e.log.Error("lua function calc_move_effect not found")
		return MoveRoll{}
	}

	t := e.vm.NewTable()

	src := e.vm.NewTable()
	src.RawSetString("attack", lua.LNumber(ctx.SourceAttack))
	src.RawSetString("support", lua.LNumber(ctx.SourceSupport))
	src.RawSetString("crit", lua.LNumber(ctx.SourceCrit))
	t.RawSetString("source", src)

	tgt := e.vm.NewTable()
	tgt.RawSetString("defence", lua.LNumber(ctx.TargetDefence))
	t.RawSetString("target", tgt)

	mv := e.vm.NewTable()
	mv.RawSetString("hp_power", lua.LNumber(ctx.HPPower))
	mv.RawSetString("sp_power", lua.LNumber(ctx.SPPower))
	mv.RawSetString("accuracy", lua.LNumber(ctx.Accuracy))
	mv.RawSetString("supporting", lua.LBool(ctx.Supporting))
	mv.RawSetString("crit", lua.LBool(ctx.Crit))
	mv.RawSetString("crit_chance", lua.LNumber(ctx.CritChance))
	t.RawSetString("move", mv)

	rolls := e.vm.NewTable()
	rolls.RawSetString("hit", lua.LNumber(ctx.HitRoll))
	rolls.RawSetString("crit", lua.LNumber(ctx.CritRoll))
	rolls.RawSetString("variation", lua.LNumber(ctx.VariationRoll))
	t.RawSetString("rolls", rolls)

	t.RawSetString("base_crit", lua.LNumber(battle.BaseCritChance))
	t.RawSetString("crit_multiplier", lua.LNumber(battle.CritMultiplier))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_move_effect error", zap.Error(err))
		return MoveRoll{}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua calc_move_effect returned non-table")
		return MoveRoll{}
	}

	roll := MoveRoll{
		Hit:     rt.RawGetString("hit") == lua.LTrue,
		Crit:    rt.RawGetString("crit") == lua.LTrue,
		HPPower: int(lua.LVAsNumber(rt.RawGetString("hp_power"))),
		SPPower: int(lua.LVAsNumber(rt.RawGetString("sp_power"))),
	}
	if roll.HPPower < 0 {
		roll.HPPower = 0
	}
	if roll.SPPower < 0 {
		roll.SPPower = 0
	}
	return roll
}

// Formula adapts the engine to battle.Formula. Every call draws exactly three
// values: hit, crit, variation.
func (e *Engine) Formula() battle.Formula {
	return luaFormula{e}
}

type luaFormula struct{ e *Engine }

func (f luaFormula) Resolve(src, tgt *component.Fighter, m *component.Move, rng battle.Rand) battle.Roll {
	r := f.e.ResolveMove(MoveContext{
		SourceAttack:  src.Attack,
		SourceSupport: src.Support,
		SourceCrit:    src.Crit,
		TargetDefence: tgt.Defence,
		HPPower:       m.HPPower,
		SPPower:       m.SPPower,
		Accuracy:      m.Accuracy,
		Supporting:    m.Supporting,
		Crit:          m.Crit,
		CritChance:    m.CritChance,
		HitRoll:       rng.Float64(),
		CritRoll:      rng.Float64(),
		VariationRoll: rng.Float64(),
	})
	return battle.Roll{Hit: r.Hit, Crit: r.Crit, HPPower: r.HPPower, SPPower: r.SPPower}
}

package battle

import (
	"math"

	"github.com/walter-rpg/walter/internal/component"
)

const (
	// BaseCritChance is added to the move and fighter crit bonuses.
	BaseCritChance = 0.1
	CritMultiplier = 1.5

	// roundingSlack absorbs float error so an exact integer product is not
	// rounded up to the next point.
	roundingSlack = 1e-9
)

// MoveResult is the calculated effect of one action on one target.
type MoveResult struct {
	Hit      bool
	Crit     bool
	HPCost   int
	SPCost   int
	HPPower  int
	SPPower  int
	Damaging bool
}

// Roll is what a Formula decides: hit, crit and final rounded powers.
type Roll struct {
	Hit     bool
	Crit    bool
	HPPower int
	SPPower int
}

// Formula turns stats and random draws into a Roll. Implementations must draw
// only from rng so a fixed stream reproduces the same result.
type Formula interface {
	Resolve(src, tgt *component.Fighter, m *component.Move, rng Rand) Roll
}

// StatFormula is the builtin formula. Draw order: accuracy, crit (attacking
// crit-eligible moves only), variation.
type StatFormula struct{}

func (StatFormula) Resolve(src, tgt *component.Fighter, m *component.Move, rng Rand) Roll {
	if rng.Float64() > m.Accuracy {
		return Roll{}
	}

	var scale float64
	if m.Supporting {
		scale = float64(src.Support) / 100
	} else {
		def := tgt.Defence
		if def < 1 {
			def = 1
		}
		scale = float64(src.Attack) / float64(def)
	}

	crit := false
	if m.Attacking() && m.Crit && rng.Float64() < m.CritChance+src.Crit+BaseCritChance {
		crit = true
		scale *= CritMultiplier
	}

	scale *= Variation(rng.Float64())
	return Roll{
		Hit:     true,
		Crit:    crit,
		HPPower: scaledPower(m.HPPower, scale),
		SPPower: scaledPower(m.SPPower, scale),
	}
}

// Variation maps a uniform draw in [0,1) to a multiplier in [0.9, 1.1).
func Variation(r float64) float64 {
	return 0.9 + r/5
}

func scaledPower(base int, scale float64) int {
	if base <= 0 {
		return 0
	}
	return int(math.Ceil(float64(base)*scale - roundingSlack))
}

// CalculateEffect resolves m from src against tgt. A miss carries zero power;
// its costs are kept only when payOnMiss is set.
func CalculateEffect(f Formula, src, tgt *component.Fighter, m *component.Move, rng Rand, payOnMiss bool) MoveResult {
	roll := f.Resolve(src, tgt, m, rng)
	res := MoveResult{Hit: roll.Hit, Crit: roll.Crit, Damaging: m.Attacking()}
	if roll.Hit {
		res.HPPower = roll.HPPower
		res.SPPower = roll.SPPower
	}
	if roll.Hit || payOnMiss {
		res.HPCost = m.HPCost
		res.SPCost = m.SPCost
	}
	return res
}

// Execute charges the costs in r to src and applies its power to tgt.
// src and tgt may be the same fighter.
func Execute(src, tgt *component.Fighter, r MoveResult) {
	src.DecreaseHealth(r.HPCost)
	src.DecreaseSP(r.SPCost)
	if !r.Hit {
		return
	}
	if r.Damaging {
		tgt.DecreaseHealth(r.HPPower)
		tgt.DecreaseSP(r.SPPower)
		return
	}
	tgt.IncreaseHealth(r.HPPower)
	tgt.IncreaseSP(r.SPPower)
}

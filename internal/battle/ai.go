package battle

import (
	"github.com/walter-rpg/walter/internal/component"
	"github.com/walter-rpg/walter/internal/core/ecs"
)

// Participant is a read-only snapshot of one roster member taken at the start
// of a turn.
type Participant struct {
	Entity  ecs.Entity
	Fighter component.Fighter
}

// Strategy decides a fighter's move and targets. The input layer implements
// the same shape for player-controlled fighters.
type Strategy interface {
	Handover(source Participant, roster []Participant, rng Rand) (*component.Move, []ecs.Entity, error)
}

// RandomStrategy picks uniformly among affordable moves.
type RandomStrategy struct {
	// IncludeDowned lets single and faction AOE targeting pick downed fighters.
	IncludeDowned bool
}

func (s RandomStrategy) Handover(source Participant, roster []Participant, rng Rand) (*component.Move, []ecs.Entity, error) {
	legal := LegalMoves(&source.Fighter)
	if len(legal) == 0 {
		return nil, nil, ErrNoLegalMove
	}
	m := legal[rng.Intn(len(legal))]
	return m, ResolveTargets(m, source, roster, rng, s.IncludeDowned), nil
}

// LegalMoves filters f's moves to those it can currently pay for.
func LegalMoves(f *component.Fighter) []*component.Move {
	var legal []*component.Move
	for _, m := range f.Moves {
		if f.CanAfford(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// ResolveTargets expands m's target rule against the roster. Allies are the
// source itself plus fighters on its side. AOE(All) only ever hits living
// fighters. Single ally/enemy picks fall back to the source when the side is
// empty.
func ResolveTargets(m *component.Move, source Participant, roster []Participant, rng Rand, includeDowned bool) []ecs.Entity {
	if m.Target.Scope == component.ScopeSingle && m.Target.Group == component.GroupUser {
		return []ecs.Entity{source.Entity}
	}

	var pool []ecs.Entity
	for i := range roster {
		p := &roster[i]
		up := p.Fighter.Alive()
		if m.Target.Group == component.GroupAll {
			if up {
				pool = append(pool, p.Entity)
			}
			continue
		}
		if !up && !includeDowned {
			continue
		}
		allied := p.Entity == source.Entity || source.Fighter.Faction.AlliedWith(p.Fighter.Faction)
		if allied == (m.Target.Group == component.GroupAlly) {
			pool = append(pool, p.Entity)
		}
	}

	if m.Target.Scope == component.ScopeAOE {
		return pool
	}
	if len(pool) == 0 {
		return []ecs.Entity{source.Entity}
	}
	return []ecs.Entity{pool[rng.Intn(len(pool))]}
}

package event

import "github.com/walter-rpg/walter/internal/core/ecs"

// Battle events consumed by the presentation layer.

// MoveResolved is emitted once per applied action (AOE moves emit one per target).
type MoveResolved struct {
	Source     ecs.Entity
	Target     ecs.Entity
	SourceName string
	TargetName string
	MoveName   string
	UseMessage string
	Hit        bool
	Crit       bool
	Damaging   bool
	HPPower    int
	SPPower    int
	Applied    bool // false when source or target had no fighter component
}

type FighterDowned struct {
	Entity ecs.Entity
	Name   string
}

type BattleEnded struct {
	Encounter string
	EnemyName string
	Outcome   string
	Message   string
	Rounds    int
	Seed      int64
}

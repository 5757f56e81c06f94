package component

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/walter-rpg/walter/internal/core/ecs"
)

var (
	ErrInvalidTarget  = errors.New("component: invalid move target")
	ErrReviveFraction = errors.New("component: revive fraction must be in (0, 1]")
)

// Faction groups fighters into sides. Player and Ally share a side; every
// Indie fighter stands alone.
type Faction int

const (
	FactionPlayer Faction = iota
	FactionAlly
	FactionEnemy
	FactionIndie
)

func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionAlly:
		return "ally"
	case FactionEnemy:
		return "enemy"
	case FactionIndie:
		return "indie"
	default:
		return "unknown"
	}
}

// Friendly reports whether f fights on the player's side.
func (f Faction) Friendly() bool { return f == FactionPlayer || f == FactionAlly }

// AlliedWith reports whether two distinct fighters of these factions share a side.
func (f Faction) AlliedWith(other Faction) bool {
	if f == FactionIndie || other == FactionIndie {
		return false
	}
	return f.Friendly() == other.Friendly()
}

func ParseFaction(s string) (Faction, error) {
	switch strings.ToLower(s) {
	case "player":
		return FactionPlayer, nil
	case "ally":
		return FactionAlly, nil
	case "enemy":
		return FactionEnemy, nil
	case "indie":
		return FactionIndie, nil
	}
	return 0, fmt.Errorf("unknown faction %q", s)
}

// AI selects who decides a fighter's moves.
type AI int

const (
	AIRandom AI = iota
	// AIPlayer decisions come from the input layer.
	AIPlayer
)

func ParseAI(s string) (AI, error) {
	switch strings.ToLower(s) {
	case "", "random":
		return AIRandom, nil
	case "player":
		return AIPlayer, nil
	}
	return 0, fmt.Errorf("unknown ai %q", s)
}

type TargetScope int

const (
	ScopeSingle TargetScope = iota
	ScopeAOE
)

type TargetGroup int

const (
	GroupEnemy TargetGroup = iota
	GroupAlly
	GroupUser
	GroupAll
)

// Target is a move's targeting rule: Single(Ally|Enemy|User) or AOE(Ally|Enemy|All).
type Target struct {
	Scope TargetScope
	Group TargetGroup
}

var (
	SingleEnemy = Target{ScopeSingle, GroupEnemy}
	SingleAlly  = Target{ScopeSingle, GroupAlly}
	SingleUser  = Target{ScopeSingle, GroupUser}
	AOEEnemy    = Target{ScopeAOE, GroupEnemy}
	AOEAlly     = Target{ScopeAOE, GroupAlly}
	AOEAll      = Target{ScopeAOE, GroupAll}
)

func (t Target) Valid() bool {
	if t.Scope == ScopeSingle {
		return t.Group == GroupEnemy || t.Group == GroupAlly || t.Group == GroupUser
	}
	return t.Scope == ScopeAOE && (t.Group == GroupEnemy || t.Group == GroupAlly || t.Group == GroupAll)
}

func (t Target) String() string {
	scope := "single"
	if t.Scope == ScopeAOE {
		scope = "aoe"
	}
	group := [...]string{"enemy", "ally", "user", "all"}
	if int(t.Group) >= len(group) {
		return scope + ":?"
	}
	return scope + ":" + group[t.Group]
}

// ParseTarget accepts "single:enemy", "single:ally", "single:user",
// "aoe:enemy", "aoe:ally" and "aoe:all".
func ParseTarget(s string) (Target, error) {
	scope, group, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
	}
	var t Target
	switch scope {
	case "single":
		t.Scope = ScopeSingle
	case "aoe":
		t.Scope = ScopeAOE
	default:
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
	}
	switch group {
	case "enemy":
		t.Group = GroupEnemy
	case "ally":
		t.Group = GroupAlly
	case "user", "self":
		t.Group = GroupUser
	case "all":
		t.Group = GroupAll
	default:
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
	}
	if !t.Valid() {
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
	}
	return t, nil
}

// Move is immutable battle action data. Fighters that know the same move share
// one *Move; nothing may write to it after loading.
type Move struct {
	Name        string
	Description string
	UseMessage  string

	HPCost int
	SPCost int

	HPPower int // 0 = none
	SPPower int // 0 = none

	Supporting bool // heals/restores instead of damaging
	Target     Target
	Accuracy   float64 // 0.0-1.0

	Crit       bool // attacking moves only
	CritChance float64
}

func (m *Move) Attacking() bool { return !m.Supporting }

// Fighter grants an entity battle participation. HP and SP never exceed their
// maxima; alive turns false exactly when HP reaches zero and only Revive
// turns it back.
type Fighter struct {
	DisplayName string
	Level       int
	Faction     Faction
	AI          AI

	HP, MaxHP  int
	SP, MaxSP  int
	InfiniteSP bool

	Attack   int
	Defence  int
	Agility  int
	Accuracy int
	Crit     float64 // added to a move's crit chance
	Weight   int
	Support  int

	Moves    []*Move
	Selected *Move // staged decision, cleared when the turn ends

	alive bool
}

// NewFighter returns a fighter at full HP and SP.
func NewFighter(name string, level int, faction Faction, maxHP, maxSP int, moves []*Move) Fighter {
	return Fighter{
		DisplayName: name,
		Level:       level,
		Faction:     faction,
		HP:          maxHP,
		MaxHP:       maxHP,
		SP:          maxSP,
		MaxSP:       maxSP,
		Moves:       moves,
		alive:       maxHP > 0,
	}
}

func (Fighter) ComponentType() ecs.ComponentType { return TypeFighter }

func (f *Fighter) Alive() bool { return f.alive }

func (f *Fighter) DecreaseHealth(x int) {
	if x <= 0 {
		return
	}
	f.HP -= x
	if f.HP <= 0 {
		f.HP = 0
		f.alive = false
	}
}

// IncreaseHealth heals up to MaxHP. Downed fighters are not healed.
func (f *Fighter) IncreaseHealth(x int) {
	if x <= 0 || !f.alive {
		return
	}
	f.HP += x
	if f.HP > f.MaxHP {
		f.HP = f.MaxHP
	}
}

func (f *Fighter) DecreaseSP(x int) {
	if x <= 0 || f.InfiniteSP {
		return
	}
	f.SP -= x
	if f.SP < 0 {
		f.SP = 0
	}
}

func (f *Fighter) IncreaseSP(x int) {
	if x <= 0 {
		return
	}
	f.SP += x
	if f.SP > f.MaxSP {
		f.SP = f.MaxSP
	}
}

// Revive brings a downed fighter back with floor(MaxHP*p) HP, at least 1.
// It returns false when the fighter is already up.
func (f *Fighter) Revive(p float64) (bool, error) {
	if !(p > 0 && p <= 1) {
		return false, fmt.Errorf("revive %s with %v: %w", f.DisplayName, p, ErrReviveFraction)
	}
	if f.alive || f.MaxHP <= 0 {
		return false, nil
	}
	hp := int(math.Floor(float64(f.MaxHP) * p))
	if hp < 1 {
		hp = 1
	}
	f.HP = hp
	f.alive = true
	return true, nil
}

// CanAfford reports whether m's costs can be paid: SP cost within current SP
// (ignored with infinite SP) and HP cost strictly below current HP.
func (f *Fighter) CanAfford(m *Move) bool {
	if m.HPCost >= f.HP {
		return false
	}
	return f.InfiniteSP || m.SPCost <= f.SP
}

// Knows reports whether m is one of the fighter's moves (by identity).
func (f *Fighter) Knows(m *Move) bool {
	for _, known := range f.Moves {
		if known == m {
			return true
		}
	}
	return false
}

package battle

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/walter-rpg/walter/internal/component"
	"github.com/walter-rpg/walter/internal/core/ecs"
	"github.com/walter-rpg/walter/internal/world"
)

// TurnOrder selects how the roster is sorted by agility when an encounter begins.
type TurnOrder int

const (
	Ascending TurnOrder = iota // slowest acts first
	Descending
)

// Policy carries the rule choices the engine leaves to configuration.
type Policy struct {
	TurnOrder     TurnOrder
	PayCostOnMiss bool
	TargetDowned  bool
	Struggle      bool // fall back to Struggle when no move is affordable
}

func DefaultPolicy() Policy {
	return Policy{TurnOrder: Ascending, PayCostOnMiss: true, Struggle: true}
}

// Struggle is used by fighters that cannot afford any of their moves.
var Struggle = &component.Move{
	Name:       "Struggle",
	UseMessage: "struggles",
	HPPower:    1,
	Target:     component.SingleEnemy,
	Accuracy:   1,
}

// Resolution reports one applied action.
type Resolution struct {
	Action     Action
	Result     MoveResult
	SourceName string
	TargetName string
	Applied    bool // false when source or target had no fighter
	Downed     bool // target was knocked out by this action
}

type Option func(*Engine)

func WithFormula(f Formula) Option {
	return func(e *Engine) {
		if f != nil {
			e.formula = f
		}
	}
}

func WithPolicy(p Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithStrategy overrides the decision maker for fighters with the given AI tag.
func WithStrategy(ai component.AI, s Strategy) Option {
	return func(e *Engine) { e.strategies[ai] = s }
}

// Engine drives battle instances over a world. It is single-threaded
// cooperative: no call blocks or spawns goroutines.
type Engine struct {
	world      *world.World
	rng        Rand
	formula    Formula
	policy     Policy
	strategies map[component.AI]Strategy
	log        *zap.Logger
}

func NewEngine(w *world.World, rng Rand, log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		world:      w,
		rng:        rng,
		formula:    StatFormula{},
		policy:     DefaultPolicy(),
		strategies: make(map[component.AI]Strategy),
		log:        log,
	}
	for _, opt := range opts {
		opt(e)
	}
	if _, ok := e.strategies[component.AIRandom]; !ok {
		e.strategies[component.AIRandom] = RandomStrategy{IncludeDowned: e.policy.TargetDowned}
	}
	return e
}

func (e *Engine) Policy() Policy { return e.policy }

// Begin sorts the roster by agility and makes the instance available.
func (e *Engine) Begin(ctx context.Context, b *Instance) error {
	if len(b.entities) == 0 {
		return fmt.Errorf("begin %q: %w", b.EnemyName, ErrEmptyRoster)
	}
	agility := make(map[ecs.Entity]int, len(b.entities))
	e.world.Read(func(s *world.Stores) {
		for _, ent := range b.entities {
			if f, ok := s.Fighters.Get(ent); ok {
				agility[ent] = f.Agility
			}
		}
	})
	sort.SliceStable(b.entities, func(i, j int) bool {
		ai, aj := agility[b.entities[i]], agility[b.entities[j]]
		if e.policy.TurnOrder == Descending {
			return ai > aj
		}
		return ai < aj
	})
	b.turn, b.round = 0, 0
	return b.fire(ctx, evBegin)
}

// Step advances the acting entity when the instance is available. Downed or
// fighter-less actors are skipped. AI fighters queue their actions and block
// the instance in WaitingEvent; player fighters without a strategy block it
// in WaitingPlayer until Submit or Resume.
func (e *Engine) Step(ctx context.Context, b *Instance) error {
	switch b.State() {
	case StateStarted:
		return ErrNotStarted
	case StateAvailable:
	default:
		return nil
	}
	actor, ok := b.Actor()
	if !ok {
		return ErrEmptyRoster
	}

	roster := e.snapshot(b)
	var self *Participant
	for i := range roster {
		if roster[i].Entity == actor {
			self = &roster[i]
			break
		}
	}
	if self == nil || !self.Fighter.Alive() {
		e.log.Debug("skip turn", zap.Stringer("entity", actor))
		b.advance()
		return nil
	}

	strategy, ok := e.strategies[self.Fighter.AI]
	if !ok {
		if self.Fighter.AI == component.AIPlayer {
			return b.fire(ctx, evAwaitPlayer)
		}
		return fmt.Errorf("%s: %w", self.Fighter.DisplayName, ErrNoStrategy)
	}

	m, targets, err := strategy.Handover(*self, roster, e.rng)
	if errors.Is(err, ErrNoLegalMove) && e.policy.Struggle {
		m = Struggle
		targets = ResolveTargets(Struggle, *self, roster, e.rng, e.policy.TargetDowned)
	} else if err != nil {
		return fmt.Errorf("%s: %w", self.Fighter.DisplayName, err)
	}
	return e.enqueue(ctx, b, actor, m, targets)
}

// Submit queues the player's chosen move while the instance waits for input.
// Nil targets are resolved from the move's target rule.
func (e *Engine) Submit(ctx context.Context, b *Instance, m *component.Move, targets []ecs.Entity) error {
	if b.State() != StateWaitingPlayer {
		return ErrNotWaitingPlayer
	}
	actor, _ := b.Actor()
	roster := e.snapshot(b)
	var self *Participant
	for i := range roster {
		if roster[i].Entity == actor {
			self = &roster[i]
		}
	}
	if self == nil || m == nil || !self.Fighter.Knows(m) || !self.Fighter.CanAfford(m) {
		return ErrIllegalMove
	}
	if targets == nil {
		targets = ResolveTargets(m, *self, roster, e.rng, e.policy.TargetDowned)
	}
	return e.enqueue(ctx, b, actor, m, targets)
}

func (e *Engine) enqueue(ctx context.Context, b *Instance, src ecs.Entity, m *component.Move, targets []ecs.Entity) error {
	e.world.UpdateFighter(src, func(f *component.Fighter) { f.Selected = m })
	for i, t := range targets {
		b.push(Action{Source: src, Target: t, Move: m, Charge: i == 0})
	}
	return b.fire(ctx, evQueue)
}

// Apply calculates and applies one queued action. A missing fighter on either
// side resolves to no effect. Costs are charged only when the action carries
// Charge.
func (e *Engine) Apply(a Action) Resolution {
	res := Resolution{Action: a}
	e.world.Write(func(s *world.Stores) {
		src, ok := s.Fighters.Get(a.Source)
		if !ok {
			return
		}
		res.SourceName = src.DisplayName
		tgt, ok := s.Fighters.Get(a.Target)
		if !ok {
			return
		}
		res.TargetName = tgt.DisplayName
		wasUp := tgt.Alive()
		res.Result = CalculateEffect(e.formula, src, tgt, a.Move, e.rng, e.policy.PayCostOnMiss)
		if !a.Charge {
			res.Result.HPCost, res.Result.SPCost = 0, 0
		}
		Execute(src, tgt, res.Result)
		res.Applied = true
		res.Downed = wasUp && !tgt.Alive()
	})
	if !res.Applied {
		e.log.Warn("move has no effect",
			zap.String("move", a.Move.Name),
			zap.Stringer("source", a.Source),
			zap.Stringer("target", a.Target))
	}
	return res
}

// Resume releases a waiting instance once its queue is drained, clears the
// actor's staged move and hands the turn to the next entity.
func (e *Engine) Resume(ctx context.Context, b *Instance) error {
	if b.Pending() > 0 {
		return fmt.Errorf("resume %q with %d actions: %w", b.EnemyName, b.Pending(), ErrPendingActions)
	}
	if err := b.fire(ctx, evResume); err != nil {
		return err
	}
	if actor, ok := b.Actor(); ok {
		e.world.UpdateFighter(actor, func(f *component.Fighter) { f.Selected = nil })
	}
	b.advance()
	return nil
}

func (e *Engine) snapshot(b *Instance) []Participant {
	roster := make([]Participant, 0, len(b.entities))
	e.world.Read(func(s *world.Stores) {
		for _, ent := range b.entities {
			if f, ok := s.Fighters.Get(ent); ok {
				roster = append(roster, Participant{Entity: ent, Fighter: *f})
			}
		}
	})
	return roster
}

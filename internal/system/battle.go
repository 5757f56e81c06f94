package system

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/walter-rpg/walter/internal/battle"
	"github.com/walter-rpg/walter/internal/component"
	"github.com/walter-rpg/walter/internal/core/ecs"
	"github.com/walter-rpg/walter/internal/core/event"
	coresys "github.com/walter-rpg/walter/internal/core/system"
	"github.com/walter-rpg/walter/internal/persist"
	"github.com/walter-rpg/walter/internal/world"
)

// Ledger stores finished battles. *persist.BattleRepo implements it.
type Ledger interface {
	Record(ctx context.Context, rec *persist.BattleRecord) (bool, error)
}

// BattleOptions describe the encounter a BattleSystem runs.
type BattleOptions struct {
	Encounter  string
	Seed       int64
	Formula    string
	RoundLimit int // 0 = unlimited
	// ReviveFraction brings downed friendly fighters back after a win with
	// this share of their max HP. 0 disables.
	ReviveFraction float64
}

// BattleSystem drives one battle instance through the engine, one turn per
// tick: step the acting fighter, apply every queued action, judge after each,
// then resume. It stops on a decided outcome or the round limit.
type BattleSystem struct {
	ctx    context.Context
	world  *world.World
	engine *battle.Engine
	inst   *battle.Instance
	bus    *event.Bus
	ledger Ledger // nil disables recording
	opts   BattleOptions
	log    *zap.Logger

	started time.Time
	actions []persist.ActionRecord
	outcome battle.Outcome
	done    bool
}

func NewBattleSystem(ctx context.Context, w *world.World, eng *battle.Engine, inst *battle.Instance,
	bus *event.Bus, ledger Ledger, opts BattleOptions, log *zap.Logger) *BattleSystem {
	return &BattleSystem{
		ctx:     ctx,
		world:   w,
		engine:  eng,
		inst:    inst,
		bus:     bus,
		ledger:  ledger,
		opts:    opts,
		log:     log,
		outcome: battle.OutcomeNone,
	}
}

func (s *BattleSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// Done reports whether the encounter has ended.
func (s *BattleSystem) Done() bool { return s.done }

func (s *BattleSystem) Outcome() battle.Outcome { return s.outcome }

func (s *BattleSystem) Instance() *battle.Instance { return s.inst }

func (s *BattleSystem) Update(_ time.Duration) {
	if s.done {
		return
	}

	if s.inst.State() == battle.StateStarted {
		if err := s.engine.Begin(s.ctx, s.inst); err != nil {
			s.log.Error("battle begin failed", zap.Error(err))
			s.finish(battle.OutcomeRetreat)
			return
		}
		s.started = time.Now()
		s.log.Info("battle started",
			zap.String("encounter", s.opts.Encounter),
			zap.Int("fighters", len(s.inst.Entities())))
		// A roster may already be decided, e.g. every enemy spawned downed.
		if o := battle.Judge(s.world, s.inst); o != battle.OutcomeNone {
			s.finish(o)
			return
		}
	}

	if s.opts.RoundLimit > 0 && s.inst.Round() >= s.opts.RoundLimit {
		s.log.Info("round limit reached", zap.Int("rounds", s.inst.Round()))
		s.finish(battle.OutcomeRetreat)
		return
	}

	if err := s.engine.Step(s.ctx, s.inst); err != nil {
		switch {
		case errors.Is(err, battle.ErrNoLegalMove), errors.Is(err, battle.ErrNoStrategy):
			s.log.Warn("fighter cannot act", zap.Error(err))
		default:
			s.log.Error("battle step failed", zap.Error(err))
		}
		s.finish(battle.OutcomeRetreat)
		return
	}

	// The player decides through Engine.Submit; keep waiting.
	if s.inst.State() != battle.StateWaitingEvent {
		return
	}

	for {
		a, ok := s.inst.Pop()
		if !ok {
			break
		}
		s.resolve(a)
		if o := battle.Judge(s.world, s.inst); o != battle.OutcomeNone {
			s.finish(o)
			return
		}
	}

	if err := s.engine.Resume(s.ctx, s.inst); err != nil {
		s.log.Error("battle resume failed", zap.Error(err))
		s.finish(battle.OutcomeRetreat)
	}
}

func (s *BattleSystem) revive(e ecs.Entity) {
	s.world.UpdateFighter(e, func(f *component.Fighter) {
		ok, err := f.Revive(s.opts.ReviveFraction)
		if err != nil {
			s.log.Warn("revive failed", zap.Error(err))
			return
		}
		if ok {
			s.log.Info("fighter revived", zap.String("name", f.DisplayName), zap.Int("hp", f.HP))
		}
	})
	// stop the knockback slide
	if s.world.HasComponent(e, component.TypeVelocity) {
		if err := s.world.Attach(e, component.Velocity{}); err != nil {
			s.log.Debug("reset velocity", zap.Error(err))
		}
	}
}

func (s *BattleSystem) resolve(a battle.Action) {
	res := s.engine.Apply(a)
	event.Emit(s.bus, event.MoveResolved{
		Source:     a.Source,
		Target:     a.Target,
		SourceName: res.SourceName,
		TargetName: res.TargetName,
		MoveName:   a.Move.Name,
		UseMessage: a.Move.UseMessage,
		Hit:        res.Result.Hit,
		Crit:       res.Result.Crit,
		Damaging:   res.Result.Damaging,
		HPPower:    res.Result.HPPower,
		SPPower:    res.Result.SPPower,
		Applied:    res.Applied,
	})
	if res.Downed {
		event.Emit(s.bus, event.FighterDowned{Entity: a.Target, Name: res.TargetName})
	}
	if res.Applied {
		s.actions = append(s.actions, persist.ActionRecord{
			Round:   s.inst.Round(),
			Source:  res.SourceName,
			Target:  res.TargetName,
			Move:    a.Move.Name,
			Hit:     res.Result.Hit,
			Crit:    res.Result.Crit,
			HPPower: res.Result.HPPower,
			SPPower: res.Result.SPPower,
			Downed:  res.Downed,
		})
	}
}

// finish ends the encounter: enemies and independents leave the world at the
// next cleanup, BattleEnded is emitted and the ledger is written.
func (s *BattleSystem) finish(o battle.Outcome) {
	s.done = true
	s.outcome = o

	for _, e := range s.inst.Entities() {
		f, ok := s.world.Fighter(e)
		if !ok {
			continue
		}
		if !f.Faction.Friendly() {
			s.world.MarkForDestruction(e)
			continue
		}
		if o == battle.OutcomeWin && s.opts.ReviveFraction > 0 && !f.Alive() {
			s.revive(e)
		}
	}

	event.Emit(s.bus, event.BattleEnded{
		Encounter: s.opts.Encounter,
		EnemyName: s.inst.EnemyName,
		Outcome:   string(o),
		Message:   s.inst.Message(o),
		Rounds:    s.inst.Round(),
		Seed:      s.opts.Seed,
	})
	s.log.Info("battle ended",
		zap.String("encounter", s.opts.Encounter),
		zap.String("outcome", string(o)),
		zap.Int("rounds", s.inst.Round()),
		zap.Int("actions", len(s.actions)))

	if s.ledger == nil {
		return
	}
	rec := &persist.BattleRecord{
		Encounter:  s.opts.Encounter,
		EnemyName:  s.inst.EnemyName,
		Outcome:    string(o),
		Rounds:     s.inst.Round(),
		Seed:       s.opts.Seed,
		Formula:    s.opts.Formula,
		StartedAt:  s.started,
		FinishedAt: time.Now(),
		Actions:    s.actions,
	}
	stored, err := s.ledger.Record(s.ctx, rec)
	if err != nil {
		s.log.Error("record battle", zap.Error(err))
		return
	}
	if !stored {
		s.log.Info("battle replay already recorded", zap.Int64("seed", s.opts.Seed))
	}
}

package battle

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/walter-rpg/walter/internal/component"
	"github.com/walter-rpg/walter/internal/core/ecs"
)

// State is the coarse instance state. There is no terminal state; callers
// judge the outcome after each applied action.
type State string

const (
	StateStarted       State = "started"
	StateAvailable     State = "available"
	StateWaitingPlayer State = "waiting_player"
	StateWaitingEvent  State = "waiting_event"
)

const (
	evBegin       = "begin"
	evQueue       = "queue"
	evAwaitPlayer = "await_player"
	evResume      = "resume"
)

// Action is one queued single-target move use. AOE moves fan out into one
// Action per resolved target; only the first carries Charge, so the move's
// costs are paid once per use.
type Action struct {
	Source ecs.Entity
	Target ecs.Entity
	Move   *component.Move
	Charge bool
}

// Instance is the live state of one encounter. It references entities by
// handle only and never frees them.
type Instance struct {
	EnemyName   string
	WinMessage  string
	LossMessage string

	entities []ecs.Entity
	turn     int
	round    int
	queue    []Action
	head     int

	fsm *fsm.FSM
	log *zap.Logger
}

func NewInstance(enemyName string, log *zap.Logger) *Instance {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Instance{EnemyName: enemyName, log: log}
	b.fsm = fsm.NewFSM(
		string(StateStarted),
		fsm.Events{
			{Name: evBegin, Src: []string{string(StateStarted)}, Dst: string(StateAvailable)},
			{Name: evQueue, Src: []string{string(StateAvailable), string(StateWaitingPlayer)}, Dst: string(StateWaitingEvent)},
			{Name: evAwaitPlayer, Src: []string{string(StateAvailable)}, Dst: string(StateWaitingPlayer)},
			{Name: evResume, Src: []string{string(StateWaitingEvent), string(StateWaitingPlayer)}, Dst: string(StateAvailable)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				b.log.Debug("battle state",
					zap.String("encounter", b.EnemyName),
					zap.String("from", e.Src),
					zap.String("to", e.Dst),
					zap.String("event", e.Event))
			},
		},
	)
	return b
}

// AddEntities appends participants to the roster.
func (b *Instance) AddEntities(es ...ecs.Entity) {
	b.entities = append(b.entities, es...)
}

// Entities returns a copy of the roster in turn order.
func (b *Instance) Entities() []ecs.Entity {
	return append([]ecs.Entity(nil), b.entities...)
}

func (b *Instance) State() State { return State(b.fsm.Current()) }

// Turn is the index of the acting entity in the roster.
func (b *Instance) Turn() int { return b.turn }

// Round counts completed passes over the whole roster.
func (b *Instance) Round() int { return b.round }

// Actor returns the entity whose turn it is.
func (b *Instance) Actor() (ecs.Entity, bool) {
	if len(b.entities) == 0 {
		return ecs.Entity{}, false
	}
	return b.entities[b.turn], true
}

// Pop removes the oldest queued action.
func (b *Instance) Pop() (Action, bool) {
	if b.head >= len(b.queue) {
		return Action{}, false
	}
	a := b.queue[b.head]
	b.head++
	if b.head == len(b.queue) {
		b.queue = b.queue[:0]
		b.head = 0
	}
	return a, true
}

// Pending is the number of queued actions not yet popped.
func (b *Instance) Pending() int { return len(b.queue) - b.head }

func (b *Instance) push(a Action) {
	b.queue = append(b.queue, a)
}

func (b *Instance) advance() {
	if len(b.entities) == 0 {
		return
	}
	b.turn = (b.turn + 1) % len(b.entities)
	if b.turn == 0 {
		b.round++
	}
}

func (b *Instance) fire(ctx context.Context, ev string) error {
	if err := b.fsm.Event(ctx, ev); err != nil {
		return fmt.Errorf("battle %q %s from %s: %w", b.EnemyName, ev, b.State(), err)
	}
	return nil
}

package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/walter-rpg/walter/internal/component"
	"github.com/walter-rpg/walter/internal/core/event"
	coresys "github.com/walter-rpg/walter/internal/core/system"
	"github.com/walter-rpg/walter/internal/world"
)

// KnockbackSpeed is the velocity given to a fighter when it is downed, in
// world units per second.
const KnockbackSpeed = 40.0

// PhysicsSystem integrates velocity into position every tick.
type PhysicsSystem struct {
	world *world.World
	log   *zap.Logger
}

func NewPhysicsSystem(w *world.World, bus *event.Bus, log *zap.Logger) *PhysicsSystem {
	s := &PhysicsSystem{world: w, log: log}
	event.Subscribe(bus, s.onDowned)
	return s
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *PhysicsSystem) Update(dt time.Duration) {
	s.world.Integrate(dt.Seconds())
}

// onDowned slides a knocked-out fighter away from the line.
func (s *PhysicsSystem) onDowned(ev event.FighterDowned) {
	if !s.world.HasComponent(ev.Entity, component.TypePosition) {
		return
	}
	if err := s.world.Attach(ev.Entity, component.Velocity{DY: KnockbackSpeed}); err != nil {
		s.log.Debug("knockback skipped", zap.String("name", ev.Name), zap.Error(err))
	}
}

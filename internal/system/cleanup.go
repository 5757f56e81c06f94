package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/walter-rpg/walter/internal/core/system"
	"github.com/walter-rpg/walter/internal/world"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
type CleanupSystem struct {
	world *world.World
	log   *zap.Logger
}

func NewCleanupSystem(w *world.World, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: w, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if n := s.world.FlushDestroyQueue(); n > 0 {
		s.log.Debug("destroyed entities", zap.Int("count", n), zap.Int("live", s.world.LiveEntities()))
	}
}

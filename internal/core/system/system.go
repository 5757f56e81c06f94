package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhasePreUpdate  Phase = iota // 0: deliver last tick's events
	PhaseUpdate                  // 1: battle logic
	PhasePostUpdate              // 2: physics
	PhaseCleanup                 // 3: destroy queued entities

	phaseCount
)

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

package system

import "time"

// Runner executes systems in phase order each tick. Systems sharing a phase
// keep their registration order.
type Runner struct {
	phases [phaseCount][]System
	ticks  uint64
}

func NewRunner() *Runner {
	return &Runner{}
}

// Register adds s to its phase. Phases outside the known range panic.
func (r *Runner) Register(s System) {
	p := s.Phase()
	if p < 0 || p >= phaseCount {
		panic("system: unknown phase")
	}
	r.phases[p] = append(r.phases[p], s)
}

func (r *Runner) Tick(dt time.Duration) {
	for _, systems := range r.phases {
		for _, s := range systems {
			s.Update(dt)
		}
	}
	r.ticks++
}

// Ticks is the number of completed Tick calls.
func (r *Runner) Ticks() uint64 { return r.ticks }

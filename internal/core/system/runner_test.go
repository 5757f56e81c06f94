package system_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/walter-rpg/walter/internal/core/system"
)

type recorder struct {
	name  string
	phase system.Phase
	log   *[]string
}

func (r recorder) Phase() system.Phase  { return r.phase }
func (r recorder) Update(time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	r := system.NewRunner()
	r.Register(recorder{"cleanup", system.PhaseCleanup, &log})
	r.Register(recorder{"battle", system.PhaseUpdate, &log})
	r.Register(recorder{"events", system.PhasePreUpdate, &log})
	r.Register(recorder{"narration", system.PhaseUpdate, &log})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"events", "battle", "narration", "cleanup"}, log)
}

func TestRunnerCountsTicks(t *testing.T) {
	var log []string
	r := system.NewRunner()
	r.Register(recorder{"battle", system.PhaseUpdate, &log})
	r.Tick(0)
	r.Tick(0)
	assert.Equal(t, uint64(2), r.Ticks())
	assert.Len(t, log, 2)
}

func TestRunnerRejectsUnknownPhase(t *testing.T) {
	var log []string
	r := system.NewRunner()
	assert.Panics(t, func() { r.Register(recorder{"bogus", system.Phase(42), &log}) })
}

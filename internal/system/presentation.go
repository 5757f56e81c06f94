package system

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/walter-rpg/walter/internal/core/event"
	coresys "github.com/walter-rpg/walter/internal/core/system"
)

// PresentationSystem narrates battle events as text lines. Lines collected
// while events are dispatched are written out at the end of the tick.
type PresentationSystem struct {
	out     io.Writer
	title   cases.Caser
	pending []string
	log     *zap.Logger
}

func NewPresentationSystem(bus *event.Bus, out io.Writer, log *zap.Logger) *PresentationSystem {
	s := &PresentationSystem{
		out:   out,
		title: cases.Title(language.English),
		log:   log,
	}
	event.Subscribe(bus, s.onMove)
	event.Subscribe(bus, s.onDowned)
	event.Subscribe(bus, s.onEnded)
	return s
}

func (s *PresentationSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *PresentationSystem) Update(_ time.Duration) {
	for _, line := range s.pending {
		if _, err := fmt.Fprintln(s.out, line); err != nil {
			s.log.Warn("narration write failed", zap.Error(err))
			break
		}
	}
	s.pending = s.pending[:0]
}

func (s *PresentationSystem) say(format string, args ...any) {
	s.pending = append(s.pending, fmt.Sprintf(format, args...))
}

func (s *PresentationSystem) onMove(ev event.MoveResolved) {
	if !ev.Applied {
		return
	}
	src, tgt := s.title.String(ev.SourceName), s.title.String(ev.TargetName)
	verb := ev.UseMessage
	if verb == "" {
		verb = "uses " + ev.MoveName + " on"
	}
	if ev.Source == ev.Target {
		s.say("%s %s.", src, strings.TrimSuffix(verb, " on"))
	} else {
		s.say("%s %s %s.", src, verb, tgt)
	}
	if !ev.Hit {
		s.say("  It misses!")
		return
	}
	if ev.Crit {
		s.say("  A critical hit!")
	}
	switch {
	case ev.Damaging && ev.HPPower > 0:
		s.say("  %s takes %d damage.", tgt, ev.HPPower)
	case !ev.Damaging && ev.HPPower > 0:
		s.say("  %s recovers %d HP.", tgt, ev.HPPower)
	}
	switch {
	case ev.Damaging && ev.SPPower > 0:
		s.say("  %s loses %d SP.", tgt, ev.SPPower)
	case !ev.Damaging && ev.SPPower > 0:
		s.say("  %s recovers %d SP.", tgt, ev.SPPower)
	}
}

func (s *PresentationSystem) onDowned(ev event.FighterDowned) {
	s.say("%s is knocked out!", s.title.String(ev.Name))
}

func (s *PresentationSystem) onEnded(ev event.BattleEnded) {
	if ev.Message != "" {
		s.say("%s", ev.Message)
	}
	s.say("Battle against %s over after %d rounds: %s.", ev.EnemyName, ev.Rounds, ev.Outcome)
}

package battle

import (
	"github.com/walter-rpg/walter/internal/component"
	"github.com/walter-rpg/walter/internal/world"
)

// Outcome is the caller's judgement of an encounter.
type Outcome string

const (
	OutcomeNone     Outcome = "none"
	OutcomeWin      Outcome = "win"
	OutcomeLoss     Outcome = "loss"
	OutcomeGameOver Outcome = "game_over"
	OutcomeRetreat  Outcome = "retreat"
)

// Judge scans the roster. A wiped friendly side is checked first, so a mutual
// knockout counts against the player: GameOver when the side included a
// Player-faction fighter, Loss otherwise. A wiped enemy side is a Win. Indie
// fighters never decide the outcome.
func Judge(w *world.World, b *Instance) Outcome {
	var friendly, friendlyUp, hostile, hostileUp int
	player := false
	w.Read(func(s *world.Stores) {
		for _, ent := range b.entities {
			f, ok := s.Fighters.Get(ent)
			if !ok {
				continue
			}
			switch {
			case f.Faction.Friendly():
				friendly++
				if f.Alive() {
					friendlyUp++
				}
				if f.Faction == component.FactionPlayer {
					player = true
				}
			case f.Faction == component.FactionEnemy:
				hostile++
				if f.Alive() {
					hostileUp++
				}
			}
		}
	})

	switch {
	case friendly > 0 && friendlyUp == 0:
		if player {
			return OutcomeGameOver
		}
		return OutcomeLoss
	case hostile > 0 && hostileUp == 0:
		return OutcomeWin
	}
	return OutcomeNone
}

// Message returns the instance text that belongs to o, if any.
func (b *Instance) Message(o Outcome) string {
	switch o {
	case OutcomeWin:
		return b.WinMessage
	case OutcomeLoss, OutcomeGameOver:
		return b.LossMessage
	}
	return ""
}

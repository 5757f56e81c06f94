package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/walter-rpg/walter/internal/component"
)

// ErrUnknownMove is returned when a template references a move that is not in
// the move table.
var ErrUnknownMove = errors.New("unknown move")

// MoveEntry is one move as written in move_list.yaml.
type MoveEntry struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	UseMessage  string  `yaml:"use_message"`
	HPCost      int     `yaml:"hp_cost"`
	SPCost      int     `yaml:"sp_cost"`
	HPPower     int     `yaml:"hp_power"`
	SPPower     int     `yaml:"sp_power"`
	Supporting  bool    `yaml:"supporting"`
	Target      string  `yaml:"target"`   // e.g. "single:enemy", "aoe:all"
	Accuracy    float64 `yaml:"accuracy"` // 0..1
	Crit        bool    `yaml:"crit"`
	CritChance  float64 `yaml:"crit_chance"`
}

type moveListFile struct {
	Moves []MoveEntry `yaml:"moves"`
}

// MoveTable holds shared read-only moves keyed by name.
type MoveTable struct {
	moves map[string]*component.Move
}

// LoadMoveTable loads move_list.yaml.
func LoadMoveTable(path string) (*MoveTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read move list: %w", err)
	}
	var f moveListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse move list: %w", err)
	}
	t := &MoveTable{moves: make(map[string]*component.Move, len(f.Moves))}
	for i := range f.Moves {
		e := &f.Moves[i]
		if e.Name == "" {
			return nil, fmt.Errorf("parse move list: entry %d has no name", i)
		}
		if _, dup := t.moves[e.Name]; dup {
			return nil, fmt.Errorf("parse move list: duplicate move %q", e.Name)
		}
		target, err := component.ParseTarget(e.Target)
		if err != nil {
			return nil, fmt.Errorf("parse move list: move %q: %w", e.Name, err)
		}
		if e.Accuracy < 0 || e.Accuracy > 1 {
			return nil, fmt.Errorf("parse move list: move %q accuracy %v out of range", e.Name, e.Accuracy)
		}
		t.moves[e.Name] = &component.Move{
			Name:        e.Name,
			Description: e.Description,
			UseMessage:  e.UseMessage,
			HPCost:      e.HPCost,
			SPCost:      e.SPCost,
			HPPower:     e.HPPower,
			SPPower:     e.SPPower,
			Supporting:  e.Supporting,
			Target:      target,
			Accuracy:    e.Accuracy,
			Crit:        e.Crit,
			CritChance:  e.CritChance,
		}
	}
	return t, nil
}

// Get returns the move with the given name, or nil.
func (t *MoveTable) Get(name string) *component.Move {
	return t.moves[name]
}

// Count returns the number of moves loaded.
func (t *MoveTable) Count() int {
	return len(t.moves)
}

func (t *MoveTable) resolve(names []string) ([]*component.Move, error) {
	out := make([]*component.Move, 0, len(names))
	for _, n := range names {
		m := t.moves[n]
		if m == nil {
			return nil, fmt.Errorf("%q: %w", n, ErrUnknownMove)
		}
		out = append(out, m)
	}
	return out, nil
}

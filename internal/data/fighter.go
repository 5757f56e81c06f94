package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/walter-rpg/walter/internal/component"
)

type fighterEntry struct {
	Key        string   `yaml:"key"`
	Name       string   `yaml:"name"`
	Level      int      `yaml:"level"`
	Faction    string   `yaml:"faction"`
	AI         string   `yaml:"ai"`
	MaxHP      int      `yaml:"max_hp"`
	MaxSP      int      `yaml:"max_sp"`
	InfiniteSP bool     `yaml:"infinite_sp"`
	Attack     int      `yaml:"attack"`
	Defence    int      `yaml:"defence"`
	Agility    int      `yaml:"agility"`
	Accuracy   int      `yaml:"accuracy"`
	Crit       float64  `yaml:"crit"`
	Weight     int      `yaml:"weight"`
	Support    int      `yaml:"support"`
	Sprite     string   `yaml:"sprite"`
	Moves      []string `yaml:"moves"`
}

type fighterListFile struct {
	Fighters []fighterEntry `yaml:"fighters"`
}

// FighterTemplate is a resolved fighter definition. Moves point into the
// shared MoveTable.
type FighterTemplate struct {
	Key        string
	Name       string
	Level      int
	Faction    component.Faction
	AI         component.AI
	MaxHP      int
	MaxSP      int
	InfiniteSP bool
	Attack     int
	Defence    int
	Agility    int
	Accuracy   int
	Crit       float64
	Weight     int
	Support    int
	Sprite     string
	Moves      []*component.Move
}

// NewFighter returns a fresh fighter at full HP and SP.
func (t *FighterTemplate) NewFighter() component.Fighter {
	f := component.NewFighter(t.Name, t.Level, t.Faction, t.MaxHP, t.MaxSP, t.Moves)
	f.AI = t.AI
	f.InfiniteSP = t.InfiniteSP
	f.Attack = t.Attack
	f.Defence = t.Defence
	f.Agility = t.Agility
	f.Accuracy = t.Accuracy
	f.Crit = t.Crit
	f.Weight = t.Weight
	f.Support = t.Support
	return f
}

// FighterTable holds fighter templates keyed by template key.
type FighterTable struct {
	templates map[string]*FighterTemplate
}

// LoadFighterTable loads fighter_list.yaml, resolving move names against moves.
func LoadFighterTable(path string, moves *MoveTable) (*FighterTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fighter list: %w", err)
	}
	var f fighterListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fighter list: %w", err)
	}
	t := &FighterTable{templates: make(map[string]*FighterTemplate, len(f.Fighters))}
	for _, e := range f.Fighters {
		if e.Key == "" {
			return nil, fmt.Errorf("parse fighter list: fighter %q has no key", e.Name)
		}
		if _, dup := t.templates[e.Key]; dup {
			return nil, fmt.Errorf("parse fighter list: duplicate fighter %q", e.Key)
		}
		faction, err := component.ParseFaction(e.Faction)
		if err != nil {
			return nil, fmt.Errorf("parse fighter list: fighter %q: %w", e.Key, err)
		}
		ai, err := component.ParseAI(e.AI)
		if err != nil {
			return nil, fmt.Errorf("parse fighter list: fighter %q: %w", e.Key, err)
		}
		ms, err := moves.resolve(e.Moves)
		if err != nil {
			return nil, fmt.Errorf("parse fighter list: fighter %q: %w", e.Key, err)
		}
		name := e.Name
		if name == "" {
			name = e.Key
		}
		t.templates[e.Key] = &FighterTemplate{
			Key:        e.Key,
			Name:       name,
			Level:      e.Level,
			Faction:    faction,
			AI:         ai,
			MaxHP:      e.MaxHP,
			MaxSP:      e.MaxSP,
			InfiniteSP: e.InfiniteSP,
			Attack:     e.Attack,
			Defence:    e.Defence,
			Agility:    e.Agility,
			Accuracy:   e.Accuracy,
			Crit:       e.Crit,
			Weight:     e.Weight,
			Support:    e.Support,
			Sprite:     e.Sprite,
			Moves:      ms,
		}
	}
	return t, nil
}

// Get returns the template for key, or nil.
func (t *FighterTable) Get(key string) *FighterTemplate {
	return t.templates[key]
}

func (t *FighterTable) Count() int {
	return len(t.templates)
}

package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type encounterEntry struct {
	Key         string   `yaml:"key"`
	EnemyName   string   `yaml:"enemy_name"`
	WinMessage  string   `yaml:"win_message"`
	LossMessage string   `yaml:"loss_message"`
	Fighters    []string `yaml:"fighters"`
}

type encounterListFile struct {
	Encounters []encounterEntry `yaml:"encounters"`
}

// Encounter is a resolved roster plus the instance texts.
type Encounter struct {
	Key         string
	EnemyName   string
	WinMessage  string
	LossMessage string
	Fighters    []*FighterTemplate
}

// EncounterTable holds encounters keyed by name.
type EncounterTable struct {
	encounters map[string]*Encounter
}

// LoadEncounterTable loads encounter_list.yaml, resolving fighter keys against
// fighters. A key may appear more than once in a roster.
func LoadEncounterTable(path string, fighters *FighterTable) (*EncounterTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read encounter list: %w", err)
	}
	var f encounterListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse encounter list: %w", err)
	}
	t := &EncounterTable{encounters: make(map[string]*Encounter, len(f.Encounters))}
	for _, e := range f.Encounters {
		if len(e.Fighters) == 0 {
			return nil, fmt.Errorf("parse encounter list: encounter %q has no fighters", e.Key)
		}
		enc := &Encounter{
			Key:         e.Key,
			EnemyName:   e.EnemyName,
			WinMessage:  e.WinMessage,
			LossMessage: e.LossMessage,
		}
		for _, key := range e.Fighters {
			ft := fighters.Get(key)
			if ft == nil {
				return nil, fmt.Errorf("parse encounter list: encounter %q: unknown fighter %q", e.Key, key)
			}
			enc.Fighters = append(enc.Fighters, ft)
		}
		t.encounters[e.Key] = enc
	}
	return t, nil
}

func (t *EncounterTable) Get(key string) *Encounter {
	return t.encounters[key]
}

func (t *EncounterTable) Count() int {
	return len(t.encounters)
}

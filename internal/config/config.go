package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is used when WALTER_CONFIG is unset.
const DefaultPath = "config/walter.toml"

type Config struct {
	World     WorldConfig     `toml:"world"`
	Battle    BattleConfig    `toml:"battle"`
	Data      DataConfig      `toml:"data"`
	Scripting ScriptingConfig `toml:"scripting"`
	Database  DatabaseConfig  `toml:"database"`
	Logging   LoggingConfig   `toml:"logging"`
}

type WorldConfig struct {
	Capacity int `toml:"capacity"` // entity slots, fixed for the process lifetime
}

type BattleConfig struct {
	Encounter     string        `toml:"encounter"`
	Seed          int64         `toml:"seed"`       // 0 = seed from the clock
	TurnOrder     string        `toml:"turn_order"` // "ascending" or "descending" by agility
	PayCostOnMiss bool          `toml:"pay_cost_on_miss"`
	TargetDowned  bool          `toml:"target_downed"`
	Struggle      bool          `toml:"struggle"`
	RoundLimit    int           `toml:"round_limit"` // 0 = unlimited
	Revive        float64       `toml:"revive"`      // share of max HP restored to downed allies after a win, 0 = off
	Formula       string        `toml:"formula"`     // "builtin" or "lua"
	Autoplay      bool          `toml:"autoplay"`    // player fighters use the random AI
	TickRate      time.Duration `toml:"tick_rate"`
}

type DataConfig struct {
	Moves      string `toml:"moves"`
	Fighters   string `toml:"fighters"`
	Encounters string `toml:"encounters"`
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables the battle ledger
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// Path returns the config file location from WALTER_CONFIG or DefaultPath.
func Path() string {
	if p := os.Getenv("WALTER_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		World: WorldConfig{
			Capacity: 256,
		},
		Battle: BattleConfig{
			Encounter:     "goblin_ambush",
			TurnOrder:     "ascending",
			PayCostOnMiss: true,
			Struggle:      true,
			RoundLimit:    100,
			Revive:        0.25,
			Formula:       "builtin",
			Autoplay:      true,
			TickRate:      200 * time.Millisecond,
		},
		Data: DataConfig{
			Moves:      "data/yaml/move_list.yaml",
			Fighters:   "data/yaml/fighter_list.yaml",
			Encounters: "data/yaml/encounter_list.yaml",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) validate() error {
	if c.World.Capacity <= 0 {
		return fmt.Errorf("world.capacity must be positive, got %d", c.World.Capacity)
	}
	switch c.Battle.TurnOrder {
	case "ascending", "descending":
	default:
		return fmt.Errorf("battle.turn_order %q: want ascending or descending", c.Battle.TurnOrder)
	}
	switch c.Battle.Formula {
	case "builtin", "lua":
	default:
		return fmt.Errorf("battle.formula %q: want builtin or lua", c.Battle.Formula)
	}
	if c.Battle.RoundLimit < 0 {
		return fmt.Errorf("battle.round_limit must not be negative, got %d", c.Battle.RoundLimit)
	}
	if c.Battle.Revive < 0 || c.Battle.Revive > 1 {
		return fmt.Errorf("battle.revive must be within [0, 1], got %v", c.Battle.Revive)
	}
	if c.Battle.TickRate <= 0 {
		return fmt.Errorf("battle.tick_rate must be positive, got %s", c.Battle.TickRate)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q: want console or json", c.Logging.Format)
	}
	return nil
}

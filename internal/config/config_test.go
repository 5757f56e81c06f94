package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "walter.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[battle]\nencounter = \"ogre_bridge\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "ogre_bridge", cfg.Battle.Encounter)
	assert.Equal(t, 256, cfg.World.Capacity)
	assert.Equal(t, "ascending", cfg.Battle.TurnOrder)
	assert.True(t, cfg.Battle.PayCostOnMiss)
	assert.True(t, cfg.Battle.Struggle)
	assert.False(t, cfg.Battle.TargetDowned)
	assert.Equal(t, 200*time.Millisecond, cfg.Battle.TickRate)
	assert.Empty(t, cfg.Database.DSN)
}

func TestLoadOverrides(t *testing.T) {
	body := `
[world]
capacity = 16

[battle]
turn_order = "descending"
pay_cost_on_miss = false
tick_rate = "50ms"
seed = 7

[logging]
format = "json"
`
	cfg, err := Load(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.World.Capacity)
	assert.Equal(t, "descending", cfg.Battle.TurnOrder)
	assert.False(t, cfg.Battle.PayCostOnMiss)
	assert.Equal(t, 50*time.Millisecond, cfg.Battle.TickRate)
	assert.Equal(t, int64(7), cfg.Battle.Seed)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"turn order": "[battle]\nturn_order = \"sideways\"\n",
		"formula":    "[battle]\nformula = \"python\"\n",
		"capacity":   "[world]\ncapacity = 0\n",
		"rounds":     "[battle]\nround_limit = -1\n",
		"format":     "[logging]\nformat = \"xml\"\n",
		"revive":     "[battle]\nrevive = 1.5\n",
		"syntax":     "[battle\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorContains(t, err, "read config")
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load("../../config/walter.toml")
	require.NoError(t, err)
	assert.Equal(t, "goblin_ambush", cfg.Battle.Encounter)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestPath(t *testing.T) {
	t.Setenv("WALTER_CONFIG", "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv("WALTER_CONFIG", "/etc/walter.toml")
	assert.Equal(t, "/etc/walter.toml", Path())
}

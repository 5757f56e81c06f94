package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/walter-rpg/walter/internal/asset"
	"github.com/walter-rpg/walter/internal/battle"
	"github.com/walter-rpg/walter/internal/component"
	"github.com/walter-rpg/walter/internal/config"
	"github.com/walter-rpg/walter/internal/core/ecs"
	"github.com/walter-rpg/walter/internal/core/event"
	coresys "github.com/walter-rpg/walter/internal/core/system"
	"github.com/walter-rpg/walter/internal/data"
	"github.com/walter-rpg/walter/internal/persist"
	"github.com/walter-rpg/walter/internal/scripting"
	"github.com/walter-rpg/walter/internal/system"
	"github.com/walter-rpg/walter/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Load data tables
	printSection("Data")
	moves, err := data.LoadMoveTable(cfg.Data.Moves)
	if err != nil {
		return fmt.Errorf("load moves: %w", err)
	}
	printStat("moves", moves.Count())
	fighters, err := data.LoadFighterTable(cfg.Data.Fighters, moves)
	if err != nil {
		return fmt.Errorf("load fighters: %w", err)
	}
	printStat("fighter templates", fighters.Count())
	encounters, err := data.LoadEncounterTable(cfg.Data.Encounters, fighters)
	if err != nil {
		return fmt.Errorf("load encounters: %w", err)
	}
	printStat("encounters", encounters.Count())

	enc := encounters.Get(cfg.Battle.Encounter)
	if enc == nil {
		return fmt.Errorf("encounter %q not found in %s", cfg.Battle.Encounter, cfg.Data.Encounters)
	}

	// 4. Formula
	formula := battle.Formula(battle.StatFormula{})
	if cfg.Battle.Formula == "lua" {
		lua, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("init lua: %w", err)
		}
		defer lua.Close()
		if !lua.Has("calc_move_effect") {
			return fmt.Errorf("lua formula selected but calc_move_effect is not defined in %s", cfg.Scripting.Dir)
		}
		formula = lua.Formula()
	}
	printOK("formula: " + cfg.Battle.Formula)

	// 5. Optional battle ledger
	var ledger system.Ledger
	if cfg.Database.DSN != "" {
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("init db: %w", err)
		}
		defer db.Close()
		version, err := db.RunMigrations(ctx)
		if err != nil {
			return err
		}
		log.Debug("ledger schema", zap.Int64("version", version))
		repo := persist.NewBattleRepo(db)
		if past, err := repo.Outcomes(ctx, enc.Key); err != nil {
			log.Warn("read past outcomes", zap.Error(err))
		} else {
			log.Info("past outcomes", zap.String("encounter", enc.Key), zap.Any("outcomes", past))
		}
		ledger = repo
		printOK("battle ledger")
	}

	// 6. World and roster
	ws := world.New(cfg.World.Capacity)
	atlas := asset.NewAtlas()
	inst, err := spawnEncounter(ws, atlas, enc, log)
	if err != nil {
		return err
	}
	printStat("entities", ws.LiveEntities())
	printStat("sprites", atlas.Len())
	for h := 1; h <= atlas.Len(); h++ {
		if p, ok := atlas.Path(asset.Handle(h)); ok {
			log.Debug("sprite", zap.Int("handle", h), zap.String("path", p))
		}
	}

	// 7. Engine
	seed := cfg.Battle.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	policy := battle.Policy{
		TurnOrder:     battle.Ascending,
		PayCostOnMiss: cfg.Battle.PayCostOnMiss,
		TargetDowned:  cfg.Battle.TargetDowned,
		Struggle:      cfg.Battle.Struggle,
	}
	if cfg.Battle.TurnOrder == "descending" {
		policy.TurnOrder = battle.Descending
	}
	opts := []battle.Option{battle.WithPolicy(policy), battle.WithFormula(formula)}
	if cfg.Battle.Autoplay {
		opts = append(opts, battle.WithStrategy(component.AIPlayer, battle.RandomStrategy{IncludeDowned: policy.TargetDowned}))
	}
	engine := battle.NewEngine(ws, battle.NewRand(seed), log, opts...)

	// 8. Systems
	bus := event.NewBus()
	battleSys := system.NewBattleSystem(ctx, ws, engine, inst, bus, ledger, system.BattleOptions{
		Encounter:      enc.Key,
		Seed:           seed,
		Formula:        cfg.Battle.Formula,
		RoundLimit:     cfg.Battle.RoundLimit,
		ReviveFraction: cfg.Battle.Revive,
	}, log)

	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(battleSys)
	runner.Register(system.NewPhysicsSystem(ws, bus, log))
	runner.Register(system.NewPresentationSystem(bus, os.Stdout, log))
	runner.Register(system.NewCleanupSystem(ws, log))

	// 9. Game loop
	ticker := time.NewTicker(cfg.Battle.TickRate)
	defer ticker.Stop()

	printSection("Battle")
	log.Info("encounter", zap.String("key", enc.Key), zap.Int64("seed", seed))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Battle.TickRate)
			if battleSys.Done() && bus.Pending() == 0 {
				log.Info("stopped", zap.String("outcome", string(battleSys.Outcome())), zap.Uint64("ticks", runner.Ticks()))
				return nil
			}
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return nil
		}
	}
}

// spawnEncounter builds one entity per roster slot and returns the instance
// referencing them. Friendly fighters line up on the left, the rest on the right.
func spawnEncounter(ws *world.World, atlas *asset.Atlas, enc *data.Encounter, log *zap.Logger) (*battle.Instance, error) {
	inst := battle.NewInstance(enc.EnemyName, log)
	inst.WinMessage = enc.WinMessage
	inst.LossMessage = enc.LossMessage

	var left, right float64
	for _, tmpl := range enc.Fighters {
		f := tmpl.NewFighter()
		pos := component.Position{X: 64}
		if f.Faction.Friendly() {
			pos.Y = 48 + left*40
			left++
		} else {
			pos.X = 256
			pos.Y = 48 + right*40
			right++
		}
		p := world.NewPartial().With(f).With(pos).With(component.Velocity{})
		if tmpl.Sprite != "" {
			p.With(component.Sprite{Path: tmpl.Sprite, Handle: uint32(atlas.Resolve(tmpl.Sprite))})
		}
		if f.Faction == component.FactionPlayer {
			p.With(component.Playable{})
		}
		e, err := ws.BuildEntity(p)
		if errors.Is(err, ecs.ErrPoolExhausted) {
			return nil, fmt.Errorf("spawn %s: world capacity %d reached: %w", tmpl.Key, ws.Capacity(), err)
		}
		if err != nil {
			return nil, fmt.Errorf("spawn %s: %w", tmpl.Key, err)
		}
		inst.AddEntities(e)
	}
	return inst, nil
}

// newLogger writes to stderr, colored console lines by default or JSON when
// logging.format is "json".
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level %q: %w", cfg.Level, err)
	}

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.CallerKey = zapcore.OmitKey
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		ec.ConsoleSeparator = "  "
		enc = zapcore.NewConsoleEncoder(ec)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)), nil
}

// Package main is the entry point for Gridtactics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/battle"
	"github.com/samdwyer/gridtactics/internal/config"
	"github.com/samdwyer/gridtactics/internal/enemy"
	"github.com/samdwyer/gridtactics/internal/game"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/logging"
	"github.com/samdwyer/gridtactics/internal/skills"
	"github.com/samdwyer/gridtactics/internal/telemetry"
	"github.com/samdwyer/gridtactics/internal/world"
)

var (
	headless = flag.Bool("headless", false, "play both sides automatically without a terminal UI")
	battleID = flag.String("battle", "", "battle layout id (overrides GRIDTACTICS_BATTLE)")
	maxTicks = flag.Int("max-ticks", 20000, "headless tick limit")
	listMaps = flag.Bool("list", false, "list battle layouts and exit")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run sets everything up, plays one battle and returns the exit code.
func run() int {
	// Load .env and environment configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if *battleID != "" {
		cfg.Battle = *battleID
	}

	battles, err := gamedata.LoadBattles()
	if err != nil {
		log.Fatalf("Failed to load battles: %v", err)
	}
	if *listMaps {
		for _, b := range battles {
			fmt.Printf("%-10s %s (%dx%d)\n", b.ID, b.Name, b.Width, b.Height)
		}
		fmt.Printf("%-10s %s (%dx%d)\n", world.RandomLayoutID, "Random Field", world.DefaultWidth, world.DefaultHeight)
		return 0
	}

	// The terminal belongs to tcell unless running headless
	logPath := cfg.LogFile
	if *headless {
		logPath = "stderr"
	}
	logger, err := logging.New(cfg.LogLevel, logPath)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// Initialize telemetry
	shutdown, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		logger.Warn("telemetry setup failed, running without observability", zap.Error(err))
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Error("telemetry shutdown failed", zap.Error(err))
			}
		}()
	}

	b, err := newBattle(ctx, cfg, battles, logger)
	if err != nil {
		log.Fatalf("Failed to set up battle: %v", err)
	}

	if *headless {
		return runHeadless(b, cfg, logger)
	}

	// Create and run game
	g, err := game.New(cfg, b, logger)
	if err != nil {
		log.Fatalf("Failed to initialize game: %v", err)
	}
	if err := g.Run(ctx); err != nil {
		log.Fatalf("Game error: %v", err)
	}
	fmt.Println(b.Outcome())
	return 0
}

func newBattle(ctx context.Context, cfg config.Config, battles []gamedata.BattleDef, logger *zap.Logger) (*battle.Battle, error) {
	def := gamedata.FindBattle(battles, cfg.Battle)
	if cfg.Battle == world.RandomLayoutID {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		generated, err := world.Generate(ctx, seed, []string{"fighter", "archer", "cleric"}, 4)
		if err != nil {
			return nil, fmt.Errorf("generate field: %w", err)
		}
		def = generated
	}
	if def == nil {
		return nil, fmt.Errorf("unknown battle %q", cfg.Battle)
	}
	db, err := skills.Load()
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	roster, err := gamedata.LoadRosterRegistry()
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	lib, err := animation.LoadLibrary()
	if err != nil {
		return nil, fmt.Errorf("load animations: %w", err)
	}

	opts := battle.DefaultOptions()
	opts.Seed = cfg.Seed
	opts.ProjectileArc = cfg.ProjectileArc
	opts.ProjectileSeconds = cfg.ProjectileSeconds
	opts.AutoPlayer = *headless

	b, err := battle.New(ctx, def, roster, db, lib, opts, logger)
	if err != nil {
		return nil, err
	}
	if *headless || cfg.EnemyAI == "skirmish" {
		b.SetEnemyPlanner(enemy.Skirmisher{Board: b})
	}
	return b, nil
}

// runHeadless plays the battle to an outcome and returns the exit code.
func runHeadless(b *battle.Battle, cfg config.Config, logger *zap.Logger) int {
	dt := cfg.Tick.Seconds()
	b.Start()
	for i := 0; i < *maxTicks && b.Outcome() == battle.Ongoing; i++ {
		b.Tick(dt)
	}
	for _, m := range b.Messages() {
		fmt.Println(m)
	}
	if b.Outcome() == battle.Ongoing {
		logger.Warn("tick limit reached", zap.Int("ticks", b.Ticks()))
		return 2
	}
	fmt.Println(b.Outcome())
	return 0
}

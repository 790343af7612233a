package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/battle"
	"github.com/samdwyer/gridtactics/internal/config"
	"github.com/samdwyer/gridtactics/internal/telemetry"
	"github.com/samdwyer/gridtactics/internal/ui"
)

// Game holds the entire game state.
type Game struct {
	cfg        config.Config
	log        *zap.Logger
	screen     *ui.Screen
	renderer   *ui.Renderer
	battle     *battle.Battle
	controller *Controller
	running    bool
}

// New creates a new game instance around a battle that has not started.
func New(cfg config.Config, b *battle.Battle, log *zap.Logger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	return &Game{
		cfg:      cfg,
		log:      log,
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		battle:   b,
		running:  true,
	}, nil
}

// Run executes the main game loop. The battle ticks on a fixed interval;
// input is read on its own goroutine and handled between ticks.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")

	// Initialize game (traced)
	ctx, initSpan := tracer.Start(ctx, "game.init")
	g.battle.Start()
	g.battle.Tick(0)
	g.controller = NewController(ctx, g.battle, g.log.Named("input"))
	initSpan.SetAttributes(
		attribute.String("battle", g.battle.ID.String()),
		attribute.Int("units", len(g.battle.Units())),
		attribute.Int64("tick_ms", g.cfg.Tick.Milliseconds()),
	)
	initSpan.End()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				// Screen finalized.
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(g.cfg.Tick)
	defer ticker.Stop()
	dt := g.cfg.Tick.Seconds()

	// Main game loop
	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case ev, ok := <-events:
			if !ok {
				g.running = false
				break
			}
			g.handleInput(ev)
		case <-ticker.C:
			g.battle.Tick(dt)
			g.renderer.Render(g.battle, g.controller.View())
		}
	}

	g.log.Info("game over",
		zap.Stringer("outcome", g.battle.Outcome()),
		zap.Int("ticks", g.battle.Ticks()),
	)

	// Cleanup
	g.screen.Close()
	return nil
}

// handleInput processes a single input event.
func (g *Game) handleInput(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ev *tcell.EventKey) {
	c := g.controller
	switch ev.Key() {
	case tcell.KeyCtrlC:
		g.running = false
	case tcell.KeyEscape:
		c.Cancel()
	case tcell.KeyTab:
		c.SelectNext()
	case tcell.KeyEnter:
		c.Confirm()

	case tcell.KeyUp:
		c.MoveCursor(0, -1)
	case tcell.KeyDown:
		c.MoveCursor(0, 1)
	case tcell.KeyLeft:
		c.MoveCursor(-1, 0)
	case tcell.KeyRight:
		c.MoveCursor(1, 0)

	case tcell.KeyRune:
		g.handleRune(ev.Rune())
	}
}

func (g *Game) handleRune(r rune) {
	c := g.controller
	switch {
	case r == 'q' || r == 'Q':
		g.running = false
	case r == 'm':
		c.BeginMove()
	case r == 'w':
		c.Wait()
	case r >= '1' && r <= '9':
		c.ChooseSkill(int(r - '1'))
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}

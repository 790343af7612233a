// Package battle holds the battle context: every unit, the grid, and the
// subsystems that run a fight. Tick advances all of them in a fixed order.
package battle

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/combat"
	"github.com/samdwyer/gridtactics/internal/enemy"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/event"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/phase"
	"github.com/samdwyer/gridtactics/internal/projectile"
	"github.com/samdwyer/gridtactics/internal/skills"
	"github.com/samdwyer/gridtactics/internal/unit"
)

// Command errors returned by Issue.
var (
	ErrBattleOver               = errors.New("battle is over")
	ErrUnknownUnit              = errors.New("unknown or downed unit")
	ErrNotYourPhase             = errors.New("unit's phase is not running")
	ErrUnitBusy                 = errors.New("unit is already acting")
	ErrAlreadyWaited            = errors.New("unit has already waited")
	ErrStunned                  = errors.New("unit is stunned")
	ErrInvalidMove              = errors.New("destination is not reachable")
	ErrUnknownSkill             = errors.New("unit does not know that skill")
	ErrInsufficientActionPoints = errors.New("not enough action points")
	ErrOutOfRange               = errors.New("target is out of range")
	ErrNoTarget                 = errors.New("no unit on target tile")
	ErrInvalidPlacement         = errors.New("invalid unit placement")
	errNoSourcePosition         = errors.New("projectile source has no grid position")
)

// Outcome is how a battle ended.
type Outcome int

const (
	Ongoing Outcome = iota
	Victory
	Defeat
)

func (o Outcome) String() string {
	switch o {
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	default:
		return "ongoing"
	}
}

// Options configures a battle.
type Options struct {
	Seed              int64
	ProjectileArc     float64
	ProjectileSeconds float64
	StepSeconds       float64 // time to walk one tile
	EnemyPlanner      enemy.Planner
	AutoPlayer        bool // plan the player's units too
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		ProjectileArc:     150,
		ProjectileSeconds: 1.0,
		StepSeconds:       0.15,
	}
}

type walk struct {
	path    grid.Path
	next    int
	elapsed float64
}

// Battle is one fight on one field.
type Battle struct {
	ID  uuid.UUID
	ctx context.Context
	log *zap.Logger
	rng *rand.Rand

	alloc       *entity.Allocator
	units       *entity.Store[unit.Unit]
	grid        *grid.Manager
	db          *skills.DB
	animator    *animation.Animator
	projectiles *projectile.System
	engine      *combat.Engine
	impacts     *combat.ImpactResolver
	phases      *phase.Manager
	conductors  map[phase.Phase]*enemy.Conductor

	phaseBegins *event.Queue[phase.Begin]
	commands    *event.Queue[unit.Command]
	completed   *event.Queue[unit.ActionCompleted]

	walks     map[entity.ID]*walk
	stepSecs  float64
	outcome   Outcome
	ticks     int
	history   []unit.ActionCompleted
	messages  []string
	phaseSpan trace.Span
}

// New sets up a battle from a layout. Units are created from the roster
// and placed on the grid; the battle does not start until Start is called.
func New(ctx context.Context, def *gamedata.BattleDef, roster *gamedata.RosterRegistry, db *skills.DB, lib *animation.Library, opts Options, log *zap.Logger) (*Battle, error) {
	id := uuid.New()
	log = log.With(zap.String("battle", id.String()))

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if opts.StepSeconds <= 0 {
		opts.StepSeconds = DefaultOptions().StepSeconds
	}
	if opts.EnemyPlanner == nil {
		opts.EnemyPlanner = enemy.WaitPlanner{}
	}

	alloc := entity.NewAllocator()
	b := &Battle{
		ID:          id,
		ctx:         ctx,
		log:         log,
		rng:         rand.New(rand.NewSource(seed)),
		alloc:       alloc,
		units:       entity.NewStore[unit.Unit](),
		grid:        grid.NewManager(def.Width, def.Height),
		db:          db,
		animator:    animation.NewAnimator(lib, alloc, log.Named("animation")),
		projectiles: projectile.NewSystem(alloc, opts.ProjectileArc, opts.ProjectileSeconds),
		phases:      phase.NewManager(log.Named("phase")),
		phaseBegins: event.NewQueue[phase.Begin](),
		commands:    event.NewQueue[unit.Command](),
		completed:   event.NewQueue[unit.ActionCompleted](),
		walks:       make(map[entity.ID]*walk),
		stepSecs:    opts.StepSeconds,
	}
	b.engine = combat.NewEngine(ctx, alloc, db, b, b, log.Named("combat"))
	b.impacts = combat.NewImpactResolver(b, b, log.Named("impact"))

	b.conductors = map[phase.Phase]*enemy.Conductor{
		phase.Enemy: enemy.NewConductor(opts.EnemyPlanner, log.Named("enemy")),
	}
	if opts.AutoPlayer {
		b.conductors[phase.Player] = enemy.NewConductor(enemy.Skirmisher{Board: b}, log.Named("auto"))
	}

	for _, w := range def.Walls {
		b.grid.SetTile(grid.Position{X: w.X, Y: w.Y}, grid.TileWall)
	}
	for _, p := range def.Placements {
		if err := b.place(p, roster); err != nil {
			return nil, err
		}
	}

	log.Info("battle created",
		zap.String("layout", def.ID),
		zap.Int64("seed", seed),
		zap.Int("units", b.units.Len()),
	)
	return b, nil
}

func (b *Battle) place(p gamedata.PlacementDef, roster *gamedata.RosterRegistry) error {
	var def *gamedata.UnitDef
	if p.Unit == gamedata.RandomEnemyID {
		def = roster.SpawnRandom(b.rng)
	} else {
		def = roster.GetByID(p.Unit)
	}
	if def == nil {
		return fmt.Errorf("%w: unknown unit %q", ErrInvalidPlacement, p.Unit)
	}

	pos := grid.Position{X: p.X, Y: p.Y}
	if !b.grid.InBounds(pos) || !b.grid.IsPassable(pos) || len(b.grid.At(pos)) > 0 {
		return fmt.Errorf("%w: %s at %v", ErrInvalidPlacement, def.ID, pos)
	}

	u, err := unit.NewFromDef(b.alloc.Next(), def, b.rng)
	if err != nil {
		return err
	}
	b.units.Insert(u.ID, u)
	b.grid.Add(u.ID, pos)
	b.animator.RegisterPlayer(u.ID)
	return nil
}

// SetEnemyPlanner replaces the planner that decides enemy commands. It
// must be called before Start.
func (b *Battle) SetEnemyPlanner(p enemy.Planner) {
	b.conductors[phase.Enemy] = enemy.NewConductor(p, b.log.Named("enemy"))
}

// Start begins the first player phase.
func (b *Battle) Start() {
	sig := b.phases.Begin(phase.Player)
	b.phaseBegins.Push(sig)
}

// Outcome returns how the battle stands.
func (b *Battle) Outcome() Outcome { return b.outcome }

// Phase returns the current phase and round.
func (b *Battle) Phase() (phase.Phase, int) { return b.phases.Current(), b.phases.Turn() }

// PhaseRunning reports whether the current phase accepts commands.
func (b *Battle) PhaseRunning() bool { return b.phases.State() == phase.Running }

// Ticks returns how many ticks have run.
func (b *Battle) Ticks() int { return b.ticks }

// Grid returns the battlefield grid.
func (b *Battle) Grid() *grid.Manager { return b.grid }

// Skills returns the skill database.
func (b *Battle) Skills() *skills.DB { return b.db }

// Animator returns the animation subsystem.
func (b *Battle) Animator() *animation.Animator { return b.animator }

// Projectiles returns the projectile subsystem.
func (b *Battle) Projectiles() *projectile.System { return b.projectiles }

// Engine returns the combat timeline engine.
func (b *Battle) Engine() *combat.Engine { return b.engine }

// History returns every completed unit action, oldest first.
func (b *Battle) History() []unit.ActionCompleted { return b.history }

// Messages returns the battle log, oldest first.
func (b *Battle) Messages() []string { return b.messages }

const maxMessages = 50

func (b *Battle) say(format string, args ...any) {
	b.messages = append(b.messages, fmt.Sprintf(format, args...))
	if len(b.messages) > maxMessages {
		b.messages = b.messages[len(b.messages)-maxMessages:]
	}
}

// Unit returns a standing unit.
func (b *Battle) Unit(id entity.ID) (*unit.Unit, bool) {
	return b.units.Get(id)
}

// Units returns every standing unit in handle order.
func (b *Battle) Units() []*unit.Unit {
	var out []*unit.Unit
	b.units.Each(func(_ entity.ID, u *unit.Unit) {
		out = append(out, u)
	})
	return out
}

// Team returns the standing units of a team in handle order.
func (b *Battle) Team(t unit.Team) []*unit.Unit {
	var out []*unit.Unit
	for _, u := range b.Units() {
		if u.Team == t && !u.Downed() {
			out = append(out, u)
		}
	}
	return out
}

// Opponents returns the standing units not on team.
func (b *Battle) Opponents(team unit.Team) []*unit.Unit {
	var out []*unit.Unit
	for _, u := range b.Units() {
		if u.Team != team && !u.Downed() {
			out = append(out, u)
		}
	}
	return out
}

// PositionOf returns where a unit stands.
func (b *Battle) PositionOf(id entity.ID) (grid.Position, bool) {
	return b.grid.PositionOf(id)
}

// UnitAt returns the standing unit on a tile.
func (b *Battle) UnitAt(p grid.Position) (*unit.Unit, bool) {
	for _, id := range b.grid.At(p) {
		if u, ok := b.units.Get(id); ok && !u.Downed() {
			return u, true
		}
	}
	return nil, false
}

// ValidMoves returns every tile a unit can walk to with its remaining
// movement, with the path to each.
func (b *Battle) ValidMoves(id entity.ID) map[grid.Position]grid.Path {
	u, ok := b.units.Get(id)
	if !ok {
		return nil
	}
	pos, ok := b.grid.PositionOf(id)
	if !ok {
		return nil
	}
	return b.grid.ValidMoves(pos, u.Resources.MovementLeft, b.accessFor(u.Team))
}

func (b *Battle) accessFor(team unit.Team) grid.AccessFunc {
	return func(p grid.Position) grid.Access {
		access := grid.AccessOpen
		for _, id := range b.grid.At(p) {
			other, ok := b.units.Get(id)
			if !ok {
				continue
			}
			if !other.Obstacle.Passable(team) {
				return grid.AccessBlocked
			}
			access = grid.AccessPassOnly
		}
		return access
	}
}

// Busy reports whether anything is in motion: an attack, a walk or a
// queued command.
func (b *Battle) Busy() bool {
	return b.engine.Busy() || len(b.walks) > 0 || b.commands.Len() > 0
}

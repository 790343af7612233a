package battle

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/effects"
	"github.com/samdwyer/gridtactics/internal/enemy"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/gamedata"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/phase"
	"github.com/samdwyer/gridtactics/internal/skills"
	"github.com/samdwyer/gridtactics/internal/unit"
)

const dt = 0.05

func newBattle(t *testing.T, layout string, opts Options) (*Battle, *observer.ObservedLogs) {
	t.Helper()
	battles, err := gamedata.LoadBattles()
	if err != nil {
		t.Fatalf("LoadBattles() error = %v", err)
	}
	def := gamedata.FindBattle(battles, layout)
	if def == nil {
		t.Fatalf("battle %q not found", layout)
	}
	lib, err := animation.LoadLibrary()
	if err != nil {
		t.Fatalf("LoadLibrary() error = %v", err)
	}
	core, logs := observer.New(zap.WarnLevel)
	b, err := New(context.Background(), def, gamedata.MustLoadRosterRegistry(), skills.MustLoad(), lib, opts, zap.New(core))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b, logs
}

// duel returns a started duel with the player phase running.
func duel(t *testing.T) (b *Battle, fighter, goblin *unit.Unit, logs *observer.ObservedLogs) {
	t.Helper()
	opts := DefaultOptions()
	opts.Seed = 1
	b, logs = newBattle(t, "duel", opts)
	fighter, _ = b.UnitAt(grid.Position{X: 1, Y: 1})
	goblin, _ = b.UnitAt(grid.Position{X: 2, Y: 1})
	if fighter == nil || goblin == nil {
		t.Fatal("duel units not placed")
	}
	b.Start()
	b.Tick(dt)
	if p, turn := b.Phase(); p != phase.Player || turn != 1 || !b.PhaseRunning() {
		t.Fatalf("Phase() = %v turn %d, want running player turn 1", p, turn)
	}
	return b, fighter, goblin, logs
}

// settle ticks until nothing is in motion.
func settle(t *testing.T, b *Battle) {
	t.Helper()
	for i := 0; i < 400; i++ {
		b.Tick(dt)
		if !b.Busy() && !b.animator.Busy() {
			return
		}
	}
	t.Fatal("battle never settled")
}

// untilPhase ticks until the given phase and turn are running.
func untilPhase(t *testing.T, b *Battle, p phase.Phase, turn int) {
	t.Helper()
	for i := 0; i < 400; i++ {
		b.Tick(dt)
		if cur, n := b.Phase(); cur == p && n == turn && b.PhaseRunning() && !b.Busy() {
			return
		}
	}
	cur, n := b.Phase()
	t.Fatalf("never reached %v turn %d, at %v turn %d", p, turn, cur, n)
}

func completed(b *Battle, id entity.ID, kind unit.ActionKind) int {
	n := 0
	for _, c := range b.History() {
		if c.Unit == id && c.Action == kind {
			n++
		}
	}
	return n
}

func TestAttackCompletes(t *testing.T) {
	b, fighter, goblin, logs := duel(t)

	if err := b.Issue(unit.Attack(fighter.ID, skills.AttackSkillID, grid.Position{X: 2, Y: 1})); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	settle(t, b)

	if got := goblin.Health(); got != 3 {
		t.Errorf("goblin health = %v, want 3", got)
	}
	if got := completed(b, fighter.ID, unit.ActionAttack); got != 1 {
		t.Errorf("attack completions = %d, want 1", got)
	}
	if fighter.Resources.ActionLeft != 0 {
		t.Errorf("ActionLeft = %d, want 0", fighter.Resources.ActionLeft)
	}
	if len(b.engine.Executions()) != 0 {
		t.Errorf("executions left = %d, want 0", len(b.engine.Executions()))
	}
	if p, _ := b.Phase(); p != phase.Player {
		t.Errorf("phase = %v, want player while the fighter can still move", p)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %v", logs.All())
	}
}

func TestIssueRejects(t *testing.T) {
	b, fighter, goblin, _ := duel(t)

	tests := []struct {
		name string
		cmd  unit.Command
		want error
	}{
		{"out of range", unit.Attack(fighter.ID, skills.AttackSkillID, grid.Position{X: 4, Y: 1}), ErrOutOfRange},
		{"empty tile", unit.Attack(fighter.ID, skills.AttackSkillID, grid.Position{X: 1, Y: 0}), ErrNoTarget},
		{"unknown skill", unit.Attack(fighter.ID, 2, grid.Position{X: 2, Y: 1}), ErrUnknownSkill},
		{"enemy in player phase", unit.Wait(goblin.ID), ErrNotYourPhase},
		{"unknown unit", unit.Wait(999), ErrUnknownUnit},
		{"occupied destination", unit.Move(fighter.ID, grid.Path{{X: 1, Y: 1}, {X: 2, Y: 1}}), ErrInvalidMove},
		{"too far around the goblin", unit.Move(fighter.ID, grid.Path{{X: 1, Y: 1}, {X: 4, Y: 1}}), ErrInvalidMove},
		{"empty path", unit.Move(fighter.ID, nil), ErrInvalidMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := b.Issue(tt.cmd); !errors.Is(err, tt.want) {
				t.Errorf("Issue() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIssueRejectsWhileActingAndAfterSpending(t *testing.T) {
	b, fighter, _, _ := duel(t)
	attack := unit.Attack(fighter.ID, skills.AttackSkillID, grid.Position{X: 2, Y: 1})

	if err := b.Issue(attack); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := b.Issue(unit.Wait(fighter.ID)); !errors.Is(err, ErrUnitBusy) {
		t.Errorf("Issue() while queued error = %v, want ErrUnitBusy", err)
	}
	settle(t, b)
	if err := b.Issue(attack); !errors.Is(err, ErrInsufficientActionPoints) {
		t.Errorf("second attack error = %v, want ErrInsufficientActionPoints", err)
	}
}

func TestStunnedUnitCannotActButCanWait(t *testing.T) {
	b, fighter, _, _ := duel(t)
	fighter.ApplyEffect(effects.Effect{
		Metadata: effects.Metadata{Target: fighter.ID},
		Data:     effects.Data{Type: effects.Status(effects.StatusStunned), Duration: effects.TurnCount(1)},
	}, zap.NewNop())

	if err := b.Issue(unit.Attack(fighter.ID, skills.AttackSkillID, grid.Position{X: 2, Y: 1})); !errors.Is(err, ErrStunned) {
		t.Errorf("attack error = %v, want ErrStunned", err)
	}
	if err := b.Issue(unit.Move(fighter.ID, grid.Path{{X: 1, Y: 1}, {X: 1, Y: 0}})); !errors.Is(err, ErrStunned) {
		t.Errorf("move error = %v, want ErrStunned", err)
	}
	if err := b.Issue(unit.Wait(fighter.ID)); err != nil {
		t.Errorf("wait error = %v", err)
	}
}

func TestWaitedUnitCannotActAgain(t *testing.T) {
	b, fighter, _, _ := duel(t)

	if err := b.Issue(unit.Wait(fighter.ID)); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	b.Tick(dt)
	if p, _ := b.Phase(); p != phase.Player {
		t.Fatalf("phase = %v, want player until the next advance check", p)
	}

	if err := b.Issue(unit.Move(fighter.ID, grid.Path{{X: 1, Y: 1}, {X: 1, Y: 0}})); !errors.Is(err, ErrAlreadyWaited) {
		t.Errorf("move error = %v, want ErrAlreadyWaited", err)
	}
	if err := b.Issue(unit.Attack(fighter.ID, skills.AttackSkillID, grid.Position{X: 2, Y: 1})); !errors.Is(err, ErrAlreadyWaited) {
		t.Errorf("attack error = %v, want ErrAlreadyWaited", err)
	}
}

func TestShieldBashStunsThroughEnemyPhase(t *testing.T) {
	const shieldBash skills.SkillID = 6
	b, fighter, goblin, _ := duel(t)
	b.SetEnemyPlanner(enemy.Skirmisher{Board: b})

	if err := b.Issue(unit.Attack(fighter.ID, shieldBash, grid.Position{X: 2, Y: 1})); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	settle(t, b)
	if !goblin.Effects.PreventAction() {
		t.Fatal("goblin not stunned after shield bash")
	}
	hp := fighter.Health()

	if err := b.Issue(unit.Wait(fighter.ID)); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	untilPhase(t, b, phase.Enemy, 1)
	if !goblin.Effects.PreventAction() || !goblin.Effects.PreventMove() {
		t.Errorf("goblin statuses in its phase = %v, want stunned", goblin.Effects.Statuses())
	}

	untilPhase(t, b, phase.Player, 2)
	if goblin.Effects.HasStatus(effects.StatusStunned) {
		t.Error("stun outlasted the goblin's phase")
	}
	if got := completed(b, goblin.ID, unit.ActionAttack); got != 0 {
		t.Errorf("stunned goblin attacked %d times", got)
	}
	if got := completed(b, goblin.ID, unit.ActionWait); got != 1 {
		t.Errorf("goblin waits = %d, want 1", got)
	}
	if fighter.Health() != hp {
		t.Errorf("fighter health = %v, want %v", fighter.Health(), hp)
	}
}

func TestMoveWalksPath(t *testing.T) {
	b, fighter, _, _ := duel(t)

	if err := b.Issue(unit.Move(fighter.ID, grid.Path{{X: 1, Y: 1}, {X: 0, Y: 0}})); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	settle(t, b)

	if pos, _ := b.PositionOf(fighter.ID); pos != (grid.Position{X: 0, Y: 0}) {
		t.Errorf("position = %v, want (0,0)", pos)
	}
	if fighter.Resources.MovementLeft != 1 {
		t.Errorf("MovementLeft = %d, want 1", fighter.Resources.MovementLeft)
	}
	if got := completed(b, fighter.ID, unit.ActionMove); got != 1 {
		t.Errorf("move completions = %d, want 1", got)
	}
	if p, _ := b.animator.PlayerOf(fighter.ID); p.Kind() != animation.KindIdle {
		t.Errorf("animation after walk = %v, want idle", p.Kind())
	}
}

func TestPhasesAlternate(t *testing.T) {
	b, fighter, goblin, _ := duel(t)

	if err := b.Issue(unit.Wait(fighter.ID)); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	untilPhase(t, b, phase.Player, 2)

	if got := completed(b, goblin.ID, unit.ActionWait); got != 1 {
		t.Errorf("goblin waits = %d, want 1", got)
	}
	if !fighter.Resources.CanAct() || fighter.Resources.ActionLeft != phase.ActionsPerPhase {
		t.Errorf("fighter resources not refreshed: %+v", fighter.Resources)
	}
}

func TestPoisonAtPhaseStart(t *testing.T) {
	b, fighter, goblin, _ := duel(t)
	goblin.ApplyEffect(effects.Effect{
		Metadata: effects.Metadata{Target: goblin.ID},
		Data:     effects.Data{Type: effects.Status(effects.StatusPoisoned), Duration: effects.TurnCount(2)},
	}, zap.NewNop())

	if err := b.Issue(unit.Wait(fighter.ID)); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	untilPhase(t, b, phase.Player, 2)

	if got := goblin.Health(); got != 8 {
		t.Errorf("goblin health = %v, want 8", got)
	}
	if !goblin.Effects.HasStatus(effects.StatusPoisoned) {
		t.Error("poison expired after one of two turns")
	}
	for _, c := range b.History() {
		if c.Action == unit.ActionAttack {
			t.Errorf("poison produced an action completion: %+v", c)
		}
	}
}

func TestVictory(t *testing.T) {
	b, fighter, goblin, _ := duel(t)
	attack := unit.Attack(fighter.ID, skills.AttackSkillID, grid.Position{X: 2, Y: 1})

	if err := b.Issue(attack); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	settle(t, b)
	if err := b.Issue(unit.Wait(fighter.ID)); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	untilPhase(t, b, phase.Player, 2)

	if err := b.Issue(attack); err != nil {
		t.Fatalf("Issue() turn 2 error = %v", err)
	}
	settle(t, b)

	if b.Outcome() != Victory {
		t.Fatalf("Outcome() = %v, want victory", b.Outcome())
	}
	if _, ok := b.Unit(goblin.ID); ok {
		t.Error("downed goblin still on the field")
	}
	if _, ok := b.UnitAt(grid.Position{X: 2, Y: 1}); ok {
		t.Error("downed goblin still occupies its tile")
	}
	if err := b.Issue(unit.Wait(fighter.ID)); !errors.Is(err, ErrBattleOver) {
		t.Errorf("Issue() after victory error = %v, want ErrBattleOver", err)
	}
}

func TestNewRejectsBadPlacement(t *testing.T) {
	lib, err := animation.LoadLibrary()
	if err != nil {
		t.Fatalf("LoadLibrary() error = %v", err)
	}
	tests := []struct {
		name       string
		placements []gamedata.PlacementDef
	}{
		{"unknown unit", []gamedata.PlacementDef{{Unit: "dragon", X: 0, Y: 0}}},
		{"out of bounds", []gamedata.PlacementDef{{Unit: "fighter", X: 9, Y: 0}}},
		{"on a wall", []gamedata.PlacementDef{{Unit: "fighter", X: 1, Y: 1}}},
		{"stacked", []gamedata.PlacementDef{{Unit: "fighter", X: 0, Y: 0}, {Unit: "goblin", X: 0, Y: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := &gamedata.BattleDef{
				ID: "test", Width: 3, Height: 3,
				Walls:      []gamedata.PointDef{{X: 1, Y: 1}},
				Placements: tt.placements,
			}
			_, err := New(context.Background(), def, gamedata.MustLoadRosterRegistry(), skills.MustLoad(), lib, DefaultOptions(), zap.NewNop())
			if !errors.Is(err, ErrInvalidPlacement) {
				t.Errorf("New() error = %v, want ErrInvalidPlacement", err)
			}
		})
	}
}

func TestAutoBattleFights(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 7
	opts.AutoPlayer = true
	b, _ := newBattle(t, "ravine", opts)
	b.SetEnemyPlanner(enemy.Skirmisher{Board: b})
	b.Start()

	for i := 0; i < 6000 && b.Outcome() == Ongoing; i++ {
		b.Tick(dt)
	}

	attacks := 0
	for _, c := range b.History() {
		if c.Action == unit.ActionAttack {
			attacks++
		}
	}
	if attacks == 0 {
		t.Error("no attack completed in an automatic battle")
	}
	if _, turn := b.Phase(); turn < 2 && b.Outcome() == Ongoing {
		t.Errorf("battle stalled on turn %d", turn)
	}
}

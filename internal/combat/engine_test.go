package combat

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/projectile"
	"github.com/samdwyer/gridtactics/internal/skills"
	"github.com/samdwyer/gridtactics/internal/stats"
)

type playCall struct {
	unit entity.ID
	cmd  animation.PlayCommand
}

// fakePresenter records presentation calls and can be told to fail them.
type fakePresenter struct {
	plays       []playCall
	visuals     []animation.CombatAnimationID
	projectiles []animation.CombatAnimationID
	failPlay    bool
}

func (p *fakePresenter) PlayAnimation(unit entity.ID, cmd animation.PlayCommand) error {
	if p.failPlay {
		return animation.ErrNoPlayer
	}
	p.plays = append(p.plays, playCall{unit: unit, cmd: cmd})
	return nil
}

func (p *fakePresenter) SpawnVisual(_ string, _ animation.Kind, _ grid.Position, tag animation.CombatAnimationID) error {
	p.visuals = append(p.visuals, tag)
	return nil
}

func (p *fakePresenter) SpawnProjectile(_ string, _ entity.ID, _ grid.Position, tag animation.CombatAnimationID) error {
	p.projectiles = append(p.projectiles, tag)
	return nil
}

// tagged returns the tagged play calls.
func (p *fakePresenter) tagged() []playCall {
	var out []playCall
	for _, c := range p.plays {
		if c.cmd.Tag != nil {
			out = append(out, c)
		}
	}
	return out
}

type fakeRoster map[entity.ID]*mockCombatant

func (r fakeRoster) Combatant(id entity.ID) (Combatant, bool) {
	c, ok := r[id]
	if !ok {
		return nil, false
	}
	return c, true
}

type harness struct {
	t         *testing.T
	alloc     *entity.Allocator
	roster    fakeRoster
	presenter *fakePresenter
	engine    *Engine
	resolver  *ImpactResolver
	logs      *observer.ObservedLogs

	resolved []AttackResolved
	stages   []StageComplete
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core)

	h := &harness{
		t:         t,
		alloc:     entity.NewAllocator(),
		roster:    fakeRoster{},
		presenter: &fakePresenter{},
		logs:      logs,
	}
	h.engine = NewEngine(context.Background(), h.alloc, skills.MustLoad(), h.roster, h.presenter, log)
	h.resolver = NewImpactResolver(h.roster, h.presenter, log)
	return h
}

func (h *harness) addUnit(c *mockCombatant) entity.ID {
	id := h.alloc.Next()
	h.roster[id] = c
	return id
}

// tick runs one battle tick of the combat passes, in order.
func (h *harness) tick(markers []animation.MarkerMessage, arrivals []projectile.Arrived) {
	h.engine.ListenForTriggers(markers, arrivals)
	h.engine.CheckAdvance()
	for _, sig := range h.engine.StageCompletes.Drain() {
		h.stages = append(h.stages, sig)
		h.engine.OnStageComplete(sig)
	}
	h.resolver.Resolve(h.engine.Impacts.Drain())
	for _, r := range h.engine.Resolved.Drain() {
		h.resolved = append(h.resolved, r)
		h.engine.Despawn(r.Execution)
	}
}

func marker(exec entity.ID, local int, m animation.Marker) []animation.MarkerMessage {
	return []animation.MarkerMessage{{
		Combat: &animation.CombatAnimationID{Execution: exec, Local: local},
		Marker: m,
	}}
}

func TestBuildTimelineStageCount(t *testing.T) {
	db := skills.MustLoad()
	for _, id := range []skills.SkillID{1, 2, 3, 4, 5, 6, 8} {
		skill := db.Skill(id)
		tl, err := BuildTimeline(10, 1, 2, grid.Position{}, skill)
		if err != nil {
			t.Fatalf("skill %d: %v", id, err)
		}
		if tl.Len() != len(skill.Stages) {
			t.Errorf("skill %d: Len = %d, want %d", id, tl.Len(), len(skill.Stages))
		}
		for n := 1; n <= tl.Len(); n++ {
			if _, ok := tl.Stage(n); !ok {
				t.Errorf("skill %d: stage %d missing", id, n)
			}
		}
		if _, ok := tl.Stage(tl.Len() + 1); ok {
			t.Errorf("skill %d: stage past the end exists", id)
		}
		if !tl.Ready() || tl.Current() != 0 {
			t.Errorf("skill %d: should start ready at stage 0", id)
		}
	}
}

func TestBuildTimelineErrors(t *testing.T) {
	db := skills.MustLoad()

	_, err := BuildTimeline(10, entity.None, 2, grid.Position{}, db.Skill(skills.AttackSkillID))
	if !errors.Is(err, ErrAttackerRequired) {
		t.Errorf("attack without attacker: err = %v, want ErrAttackerRequired", err)
	}

	if _, err := BuildTimeline(10, entity.None, 2, grid.Position{}, db.Skill(skills.PoisonSkillID)); err != nil {
		t.Errorf("poison needs no attacker: %v", err)
	}

	broken := db.Skill(skills.AttackSkillID)
	broken.Stages[1].Action.Impact = []int{3}
	_, err = BuildTimeline(10, 1, 2, grid.Position{}, broken)
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("bad impact index: err = %v, want ErrUnknownAction", err)
	}
}

func TestStartRefusesMalformedAttack(t *testing.T) {
	h := newHarness(t)
	b := h.addUnit(newMockCombatant(20, 0, 0, 2, 0))

	_, err := h.engine.Start(Intent{Attacker: entity.None, Defender: b, Skill: skills.AttackSkillID})
	if !errors.Is(err, ErrAttackerRequired) {
		t.Fatalf("err = %v, want ErrAttackerRequired", err)
	}
	if h.engine.Busy() {
		t.Error("no execution should exist after a failed start")
	}

	next := h.alloc.Next()
	if next != b+1 {
		t.Errorf("next handle = %v, want %v; a refused attack must not take one", next, b+1)
	}
}

func TestAttackSkillEndToEnd(t *testing.T) {
	h := newHarness(t)
	a := h.addUnit(newMockCombatant(20, 5, 0, 0, 0))
	b := h.addUnit(newMockCombatant(20, 0, 0, 2, 0))

	exec, err := h.engine.Start(Intent{Attacker: a, Defender: b, DefenderPos: grid.Position{X: 1}, Skill: skills.AttackSkillID})
	if err != nil {
		t.Fatal(err)
	}

	h.tick(nil, nil)
	plays := h.presenter.tagged()
	if len(plays) != 1 || plays[0].unit != a || plays[0].cmd.Kind != animation.KindAttack {
		t.Fatalf("stage 1 plays = %+v", plays)
	}
	if *plays[0].cmd.Tag != (animation.CombatAnimationID{Execution: exec, Local: 0}) {
		t.Errorf("play tag = %v", *plays[0].cmd.Tag)
	}

	h.tick(nil, nil)
	if h.roster[b].health() != 20 {
		t.Fatal("impact applied before the hit frame")
	}

	h.tick(marker(exec, 0, animation.MarkerHitFrame), nil)
	if got := h.roster[b].health(); got != 14 {
		t.Fatalf("health after impact = %v, want 14", got)
	}
	if changes := h.resolver.HealthChanges.Drain(); len(changes) != 1 || changes[0].Delta != -6 {
		t.Errorf("health changes = %+v", changes)
	}

	h.tick(marker(exec, 0, animation.MarkerComplete), nil)
	if len(h.resolved) != 1 {
		t.Fatalf("resolved = %+v, want one", h.resolved)
	}
	if r := h.resolved[0]; r.Attacker != a || r.Forced || r.Skill != skills.AttackSkillID {
		t.Errorf("resolved = %+v", r)
	}
	if h.engine.Busy() {
		t.Error("execution should be despawned")
	}
	if h.roster[b].health() != 14 {
		t.Error("impact applied more than once")
	}

	real := 0
	for _, s := range h.stages {
		if s.Stage >= 1 {
			real++
		}
	}
	if real != 2 {
		t.Errorf("completed %d real stages, want 2", real)
	}
}

func TestTriggerExclusivity(t *testing.T) {
	h := newHarness(t)
	a := h.addUnit(newMockCombatant(20, 5, 0, 0, 0))
	b := h.addUnit(newMockCombatant(20, 0, 0, 0, 0))
	c := h.addUnit(newMockCombatant(20, 5, 0, 0, 0))

	x, _ := h.engine.Start(Intent{Attacker: a, Defender: b, Skill: skills.AttackSkillID})
	y, _ := h.engine.Start(Intent{Attacker: c, Defender: b, Skill: skills.AttackSkillID})
	h.tick(nil, nil)

	h.tick(marker(x, 0, animation.MarkerHitFrame), nil)

	ax, _ := h.engine.Get(x)
	ay, _ := h.engine.Get(y)
	if ax.Timeline.Current() != 2 {
		t.Errorf("x stage = %d, want 2", ax.Timeline.Current())
	}
	if ay.Timeline.Current() != 1 || len(ay.Timeline.Pending(1)) != 1 {
		t.Errorf("y advanced on x's marker: stage %d pending %v", ay.Timeline.Current(), ay.Timeline.Pending(1))
	}
}

func TestStaleMarkerIgnored(t *testing.T) {
	h := newHarness(t)
	a := h.addUnit(newMockCombatant(20, 5, 0, 0, 0))
	b := h.addUnit(newMockCombatant(20, 0, 0, 2, 0))

	exec, _ := h.engine.Start(Intent{Attacker: a, Defender: b, Skill: skills.AttackSkillID})
	h.tick(nil, nil)
	h.tick(marker(exec, 0, animation.MarkerHitFrame), nil)
	h.tick(marker(exec, 0, animation.MarkerComplete), nil)
	if h.engine.Busy() {
		t.Fatal("attack should have resolved")
	}

	hp := h.roster[b].health()
	h.tick(marker(exec, 0, animation.MarkerHitFrame), nil)

	if h.roster[b].health() != hp {
		t.Error("stale marker changed state")
	}
	if n := h.logs.FilterMessage("animation marker for unknown attack execution").Len(); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
}

func TestStaleStageCompleteIgnored(t *testing.T) {
	h := newHarness(t)
	a := h.addUnit(newMockCombatant(20, 5, 0, 0, 0))
	b := h.addUnit(newMockCombatant(20, 0, 0, 2, 0))

	exec, _ := h.engine.Start(Intent{Attacker: a, Defender: b, Skill: skills.AttackSkillID})
	h.tick(nil, nil)
	h.tick(marker(exec, 0, animation.MarkerHitFrame), nil)
	if h.roster[b].health() != 14 {
		t.Fatalf("health = %v, want 14", h.roster[b].health())
	}

	// Stage 0 completed two advances ago.
	h.engine.OnStageComplete(StageComplete{Execution: exec, Stage: 0})
	h.resolver.Resolve(h.engine.Impacts.Drain())

	if len(h.presenter.tagged()) != 1 {
		t.Error("stale signal re-entered stage 1")
	}
	if h.roster[b].health() != 14 {
		t.Error("stale signal applied the impact again")
	}
	if n := h.logs.FilterMessage("stale stage complete ignored").Len(); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
}

func TestMissingPresentationReleasesTriggers(t *testing.T) {
	h := newHarness(t)
	h.presenter.failPlay = true
	a := h.addUnit(newMockCombatant(20, 5, 0, 0, 0))
	b := h.addUnit(newMockCombatant(20, 0, 0, 2, 0))

	if _, err := h.engine.Start(Intent{Attacker: a, Defender: b, Skill: skills.AttackSkillID}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		h.tick(nil, nil)
	}
	if h.roster[b].health() != 14 {
		t.Errorf("health = %v, want 14", h.roster[b].health())
	}
	if len(h.resolved) != 1 {
		t.Errorf("attack did not resolve without animations")
	}
}

func TestDanglingAttackerForceResolves(t *testing.T) {
	h := newHarness(t)
	a := h.addUnit(newMockCombatant(20, 5, 0, 0, 0))
	b := h.addUnit(newMockCombatant(20, 0, 0, 2, 0))

	if _, err := h.engine.Start(Intent{Attacker: a, Defender: b, Skill: skills.AttackSkillID}); err != nil {
		t.Fatal(err)
	}
	h.tick(nil, nil)
	delete(h.roster, a)
	h.tick(nil, nil)

	if len(h.resolved) != 1 || !h.resolved[0].Forced {
		t.Fatalf("resolved = %+v, want one forced", h.resolved)
	}
	if h.roster[b].health() != 20 {
		t.Error("forced resolution must not apply the impact")
	}
}

func TestProjectileStage(t *testing.T) {
	h := newHarness(t)
	a := h.addUnit(newMockCombatant(20, 4, 0, 0, 0))
	b := h.addUnit(newMockCombatant(20, 0, 0, 1, 0))

	exec, _ := h.engine.Start(Intent{Attacker: a, Defender: b, DefenderPos: grid.Position{X: 3}, Skill: 2})
	h.tick(nil, nil)
	h.tick(marker(exec, 0, animation.MarkerHitFrame), nil)

	if len(h.presenter.projectiles) != 1 {
		t.Fatalf("projectiles = %v, want 1", h.presenter.projectiles)
	}
	tag := h.presenter.projectiles[0]
	if tag.Execution != exec || tag.Local != 1 {
		t.Errorf("projectile tag = %v", tag)
	}

	h.tick(nil, []projectile.Arrived{{Tag: tag}})
	if got := h.roster[b].health(); got != 15 {
		t.Fatalf("health = %v, want 15", got)
	}
	h.tick(nil, nil)
	if len(h.resolved) != 1 {
		t.Error("arrow attack should resolve after its immediate impact stage")
	}
}

func TestAdvanceOneStagePerTick(t *testing.T) {
	b := skills.NewBuilder()
	_ = b.RegisterCategory(skills.Category{ID: 1})
	impact := skills.Stage{
		Action: skills.StageAction{Kind: skills.StageImpact, Impact: []int{0}},
		Event:  skills.StageEvent{Kind: skills.EventImmediate},
	}
	_ = b.RegisterSkill(1, skills.Skill{
		ID:      99,
		Actions: []skills.Action{{Kind: skills.ActionDamaging, Amount: skills.Amount{Power: 1}}},
		Stages:  []skills.Stage{impact, impact, impact},
	})

	h := newHarness(t)
	h.engine = NewEngine(context.Background(), h.alloc, b.Build(), h.roster, h.presenter, zap.NewNop())
	h.resolver = NewImpactResolver(h.roster, h.presenter, zap.NewNop())
	d := h.addUnit(newMockCombatant(20, 0, 0, 0, 0))

	if _, err := h.engine.Start(Intent{Defender: d, Skill: 99}); err != nil {
		t.Fatal(err)
	}
	ticks := 0
	for len(h.resolved) == 0 && ticks < 10 {
		h.tick(nil, nil)
		ticks++
	}
	if ticks != 4 {
		t.Errorf("resolved after %d ticks, want 4", ticks)
	}
	if h.roster[d].health() != stats.Value(17) {
		t.Errorf("health = %v, want 17", h.roster[d].health())
	}
}

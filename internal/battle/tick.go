package battle

import (
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/combat"
	"github.com/samdwyer/gridtactics/internal/effects"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/phase"
	"github.com/samdwyer/gridtactics/internal/skills"
	"github.com/samdwyer/gridtactics/internal/telemetry"
	"github.com/samdwyer/gridtactics/internal/unit"
)

// Tick advances the battle by dt seconds. The passes always run in this
// order:
//
//  1. phase advance check (effects of the ending phase count down)
//  2. phase refresh (resources, poison)
//  3. conductor selects, plans and issues
//  4. queued commands are carried out
//  5. walks, animations and projectiles advance
//  6. attack triggers are cleared
//  7. ready attacks advance one stage
//  8. stage completes enter their stage
//  9. impacts are applied
//  10. resolved attacks complete their action and despawn
//  11. completed actions are handed to the conductors
func (b *Battle) Tick(dt float64) {
	b.ticks++

	if b.outcome == Ongoing {
		b.checkPhase()
		b.refreshPhase()
		b.conduct()
		for _, cmd := range b.commands.Drain() {
			b.carryOut(cmd)
		}
	}

	b.stepWalks(dt)
	markers := b.animator.Update(dt)
	arrivals := b.projectiles.Update(dt)

	b.engine.ListenForTriggers(markers, arrivals)
	b.engine.CheckAdvance()
	for _, sig := range b.engine.StageCompletes.Drain() {
		b.engine.OnStageComplete(sig)
	}

	b.impacts.Resolve(b.engine.Impacts.Drain())
	b.applyHealthChanges()

	for _, r := range b.engine.Resolved.Drain() {
		if r.Attacker.Valid() && !r.Forced {
			b.completed.Push(unit.ActionCompleted{Unit: r.Attacker, Action: unit.ActionAttack})
		}
		b.engine.Despawn(r.Execution)
	}

	for _, done := range b.completed.Drain() {
		b.history = append(b.history, done)
		for _, c := range b.conductors {
			c.ResolveAction(done)
		}
	}

	b.checkOutcome()
}

func (b *Battle) members(p phase.Phase) []phase.Member {
	var out []phase.Member
	for _, u := range b.Units() {
		if u.Team.Phase() == p {
			out = append(out, u)
		}
	}
	return out
}

// checkPhase ends the current phase once every unit in it is spent. The
// phase holds while anything is still in motion.
func (b *Battle) checkPhase() {
	if b.Busy() {
		return
	}
	p := b.phases.Current()
	if sig, ok := b.phases.CheckShouldAdvance(p, b.members(p)); ok {
		b.expireEffects(p)
		b.phaseBegins.Push(sig)
	}
}

// expireEffects counts down the timed effects of the units whose phase
// just ended, so a one turn effect lasts through its owner's next phase.
func (b *Battle) expireEffects(p phase.Phase) {
	for _, u := range b.Units() {
		if u.Team.Phase() != p || u.Downed() {
			continue
		}
		for _, e := range u.TickEffects() {
			b.log.Debug("effect expired", zap.Stringer("unit", u.ID), zap.Int("kind", int(e.Data.Type.Kind)))
		}
	}
}

func (b *Battle) refreshPhase() {
	for _, sig := range b.phaseBegins.Drain() {
		if !b.phases.Refresh(sig, b.members(sig.Phase)) {
			continue
		}
		b.beginPhase(sig)
	}
}

func (b *Battle) beginPhase(sig phase.Begin) {
	if b.phaseSpan != nil {
		b.phaseSpan.End()
	}
	_, b.phaseSpan = telemetry.Tracer("battle").Start(b.ctx, "battle.phase")
	b.phaseSpan.SetAttributes(
		attribute.String("battle", b.ID.String()),
		attribute.String("phase", sig.Phase.String()),
		attribute.Int("turn", sig.Turn),
	)
	b.say("Turn %d: %s phase", sig.Turn, sig.Phase)

	var acting []entity.ID
	for _, u := range b.Units() {
		if u.Team.Phase() != sig.Phase || u.Downed() {
			continue
		}
		acting = append(acting, u.ID)
		if u.Effects.HasStatus(effects.StatusPoisoned) {
			b.poison(u)
		}
	}

	if c, ok := b.conductors[sig.Phase]; ok {
		c.BeginPhase(acting)
	}
}

// poison starts an attack with no attacker that deals poison damage to u.
func (b *Battle) poison(u *unit.Unit) {
	pos, ok := b.grid.PositionOf(u.ID)
	if !ok {
		return
	}
	_, err := b.engine.Start(combat.Intent{
		Defender:    u.ID,
		DefenderPos: pos,
		Skill:       skills.PoisonSkillID,
	})
	if err != nil {
		b.log.Error("poison could not start", zap.Stringer("unit", u.ID), zap.Error(err))
		return
	}
	b.say("%s suffers from poison", u.Name)
}

func (b *Battle) conduct() {
	if b.phases.State() != phase.Running {
		return
	}
	c, ok := b.conductors[b.phases.Current()]
	if !ok {
		return
	}
	c.SelectNext()
	c.PlanAction()
	c.ExecuteAction(b.engine.Busy() || len(b.walks) > 0, b.Issue)
}

func (b *Battle) applyHealthChanges() {
	for _, hc := range b.impacts.HealthChanges.Drain() {
		u, ok := b.units.Get(hc.Unit)
		if !ok {
			continue
		}
		if hc.Delta < 0 {
			b.say("%s takes %d damage", u.Name, -hc.Delta.Int())
		} else {
			b.say("%s recovers %d health", u.Name, hc.Delta.Int())
		}
		if u.Downed() {
			b.down(u)
		}
	}
}

// down removes a unit whose health reached zero from the field.
func (b *Battle) down(u *unit.Unit) {
	b.log.Info("unit downed", zap.Stringer("unit", u.ID), zap.String("name", u.Name), zap.Stringer("team", u.Team))
	b.say("%s is downed", u.Name)
	for _, c := range b.conductors {
		c.Drop(u.ID)
	}
	delete(b.walks, u.ID)
	b.grid.Remove(u.ID)
	b.animator.RemovePlayer(u.ID)
	b.units.Remove(u.ID)
}

func (b *Battle) checkOutcome() {
	if b.outcome != Ongoing {
		return
	}
	switch {
	case len(b.Team(unit.TeamEnemy)) == 0:
		b.outcome = Victory
	case len(b.Team(unit.TeamPlayer)) == 0:
		b.outcome = Defeat
	default:
		return
	}
	b.say("%s!", b.outcome)
	b.log.Info("battle over", zap.Stringer("outcome", b.outcome), zap.Int("ticks", b.ticks))
	if b.phaseSpan != nil {
		b.phaseSpan.SetAttributes(attribute.String("outcome", b.outcome.String()))
		b.phaseSpan.End()
		b.phaseSpan = nil
	}
}

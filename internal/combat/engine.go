package combat

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/event"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/projectile"
	"github.com/samdwyer/gridtactics/internal/skills"
	"github.com/samdwyer/gridtactics/internal/telemetry"
)

// Presenter plays the visible side of an attack. Every call is tagged so
// the markers it later produces route back to the right timeline.
type Presenter interface {
	PlayAnimation(unit entity.ID, cmd animation.PlayCommand) error
	SpawnVisual(sprite string, clip animation.Kind, pos grid.Position, tag animation.CombatAnimationID) error
	SpawnProjectile(sprite string, from entity.ID, to grid.Position, tag animation.CombatAnimationID) error
}

// Roster resolves unit handles to combatants.
type Roster interface {
	Combatant(id entity.ID) (Combatant, bool)
}

// AttackExecution is one live attack.
type AttackExecution struct {
	ID       entity.ID
	Attacker entity.ID // entity.None for environment attacks
	Defender entity.ID
	Skill    skills.Skill
	Timeline *Timeline
	Resolved bool

	span trace.Span
}

// Engine owns every live attack execution and runs their timelines.
// Output signals go to its queues, which the battle drains each tick.
type Engine struct {
	ctx        context.Context
	alloc      *entity.Allocator
	db         *skills.DB
	roster     Roster
	presenter  Presenter
	executions *entity.Store[AttackExecution]
	log        *zap.Logger

	StageCompletes *event.Queue[StageComplete]
	Impacts        *event.Queue[ImpactEvent]
	Resolved       *event.Queue[AttackResolved]
}

// NewEngine creates an engine. Execution handles come from alloc.
func NewEngine(ctx context.Context, alloc *entity.Allocator, db *skills.DB, roster Roster, presenter Presenter, log *zap.Logger) *Engine {
	return &Engine{
		ctx:            ctx,
		alloc:          alloc,
		db:             db,
		roster:         roster,
		presenter:      presenter,
		executions:     entity.NewStore[AttackExecution](),
		log:            log,
		StageCompletes: event.NewQueue[StageComplete](),
		Impacts:        event.NewQueue[ImpactEvent](),
		Resolved:       event.NewQueue[AttackResolved](),
	}
}

// Start turns an intent into a live attack execution. If the timeline
// cannot be built, no execution is created.
func (e *Engine) Start(intent Intent) (entity.ID, error) {
	skill := e.db.Skill(intent.Skill)
	if err := CheckTimeline(intent.Attacker, skill); err != nil {
		return entity.None, err
	}
	id := e.alloc.Next()

	tl, err := BuildTimeline(id, intent.Attacker, intent.Defender, intent.DefenderPos, skill)
	if err != nil {
		return entity.None, err
	}

	_, span := telemetry.Tracer("combat").Start(e.ctx, "combat.attack")
	span.SetAttributes(
		attribute.String("skill", skill.Name),
		attribute.Int("skill_id", int(skill.ID)),
		attribute.String("attacker", intent.Attacker.String()),
		attribute.String("defender", intent.Defender.String()),
		attribute.Int("stages", tl.Len()),
	)

	e.executions.Insert(id, &AttackExecution{
		ID:       id,
		Attacker: intent.Attacker,
		Defender: intent.Defender,
		Skill:    skill,
		Timeline: tl,
		span:     span,
	})
	e.log.Debug("attack started",
		zap.Stringer("execution", id),
		zap.String("skill", skill.Name),
		zap.Stringer("attacker", intent.Attacker),
		zap.Stringer("defender", intent.Defender),
	)
	return id, nil
}

// ListenForTriggers clears every pending trigger matched by this tick's
// animation markers and projectile arrivals. Triggers of any stage are
// cleared, not only the current one, so early or late events are absorbed.
// Events for attacks that no longer exist are logged and dropped.
func (e *Engine) ListenForTriggers(markers []animation.MarkerMessage, arrivals []projectile.Arrived) {
	for _, m := range markers {
		if m.Combat == nil {
			continue
		}
		id, marker := *m.Combat, m.Marker
		ae, ok := e.executions.Get(id.Execution)
		if !ok {
			e.log.Warn("animation marker for unknown attack execution",
				zap.Stringer("animation", id),
				zap.Stringer("marker", marker),
				zap.Stringer("entity", m.Entity),
			)
			continue
		}
		ae.Timeline.clear(func(t Trigger) bool { return t.matchesMarker(id, marker) })
	}

	for _, a := range arrivals {
		id := a.Tag
		ae, ok := e.executions.Get(id.Execution)
		if !ok {
			e.log.Warn("projectile arrived for unknown attack execution",
				zap.Stringer("animation", id),
				zap.Stringer("projectile", a.Projectile),
			)
			continue
		}
		ae.Timeline.clear(func(t Trigger) bool { return t.matchesProjectile(id) })
	}
}

// CheckAdvance moves every attack whose current stage is satisfied forward
// by exactly one stage and queues a StageComplete for it. An attack whose
// attacker has disappeared is resolved on the spot.
func (e *Engine) CheckAdvance() int {
	advanced := 0
	e.executions.Each(func(id entity.ID, ae *AttackExecution) {
		if ae.Resolved {
			return
		}
		if ae.Attacker.Valid() {
			if _, ok := e.roster.Combatant(ae.Attacker); !ok {
				e.log.Warn("attacker left mid-attack, resolving",
					zap.Stringer("execution", id),
					zap.Stringer("attacker", ae.Attacker),
					zap.Int("stage", ae.Timeline.Current()),
				)
				e.resolve(ae, true)
				return
			}
		}
		if !ae.Timeline.Ready() {
			return
		}
		done := ae.Timeline.advance()
		e.StageCompletes.Push(StageComplete{Execution: id, Stage: done})
		advanced++
	})
	return advanced
}

// OnStageComplete enters the stage after the one a signal completed. A
// signal that does not name the stage just before the cursor is stale and
// is ignored.
func (e *Engine) OnStageComplete(sig StageComplete) {
	ae, ok := e.executions.Get(sig.Execution)
	if !ok {
		e.log.Warn("stage complete for unknown attack execution", zap.Stringer("execution", sig.Execution))
		return
	}
	if ae.Resolved {
		return
	}
	current := ae.Timeline.Current()
	if sig.Stage != current-1 {
		e.log.Warn("stale stage complete ignored",
			zap.Stringer("execution", sig.Execution),
			zap.Int("signal_stage", sig.Stage),
			zap.Int("current_stage", current),
		)
		return
	}

	stage, ok := ae.Timeline.Stage(current)
	if !ok {
		e.resolve(ae, false)
		return
	}
	ae.span.AddEvent("stage", trace.WithAttributes(
		attribute.Int("stage", current),
		attribute.String("kind", stage.Kind.String()),
	))
	e.enter(ae, stage)
}

func (e *Engine) enter(ae *AttackExecution, stage Stage) {
	tag := stage.AnimationID
	switch stage.Kind {
	case skills.StageUnitAnimation:
		cmd := animation.PlayCommand{Kind: stage.Animation, FrameSeconds: stage.FrameSeconds, Tag: &tag}
		if err := e.presenter.PlayAnimation(stage.Attacker, cmd); err != nil {
			e.log.Error("cannot animate attacker", zap.Stringer("attacker", stage.Attacker), zap.Error(err))
			e.release(ae, tag)
		}

	case skills.StageCast:
		var err error
		switch stage.Cast.Kind {
		case skills.CastTileSprite:
			err = e.presenter.SpawnVisual(stage.Cast.Sprite, stage.Cast.Clip, stage.DefenderPos, tag)
		case skills.CastProjectile:
			err = e.presenter.SpawnProjectile(stage.Cast.Sprite, stage.Attacker, stage.DefenderPos, tag)
		}
		if err != nil {
			e.log.Error("cannot spawn cast", zap.String("sprite", stage.Cast.Sprite), zap.Error(err))
			e.release(ae, tag)
		}

	case skills.StageImpact:
		e.Impacts.Push(ImpactEvent{
			Execution: ae.ID,
			Attacker:  stage.Attacker,
			Defender:  stage.Defender,
			Actions:   stage.Actions,
		})
	}
}

// release drops every trigger waiting on an animation that could not be
// shown, so the attack still resolves.
func (e *Engine) release(ae *AttackExecution, tag animation.CombatAnimationID) {
	n := ae.Timeline.clear(func(t Trigger) bool { return t.ID == tag })
	e.log.Debug("released triggers", zap.Stringer("animation", tag), zap.Int("count", n))
}

func (e *Engine) resolve(ae *AttackExecution, forced bool) {
	ae.Resolved = true
	ae.span.SetAttributes(attribute.Bool("forced", forced))
	e.Resolved.Push(AttackResolved{
		Execution: ae.ID,
		Attacker:  ae.Attacker,
		Skill:     ae.Skill.ID,
		Forced:    forced,
	})
	e.log.Debug("attack resolved", zap.Stringer("execution", ae.ID), zap.Bool("forced", forced))
}

// Despawn removes a resolved attack execution.
func (e *Engine) Despawn(id entity.ID) {
	if ae, ok := e.executions.Get(id); ok {
		ae.span.End()
		e.executions.Remove(id)
	}
}

// Get returns a live attack execution.
func (e *Engine) Get(id entity.ID) (*AttackExecution, bool) {
	return e.executions.Get(id)
}

// Busy reports whether any attack is in progress.
func (e *Engine) Busy() bool {
	return e.executions.Len() > 0
}

// Attacking reports whether a unit is the attacker of a live attack.
func (e *Engine) Attacking(unit entity.ID) bool {
	found := false
	e.executions.Each(func(_ entity.ID, ae *AttackExecution) {
		if ae.Attacker == unit {
			found = true
		}
	})
	return found
}

// Executions returns the live attack executions in handle order.
func (e *Engine) Executions() []*AttackExecution {
	var out []*AttackExecution
	e.executions.Each(func(_ entity.ID, ae *AttackExecution) {
		out = append(out, ae)
	})
	return out
}

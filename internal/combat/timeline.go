package combat

import (
	"fmt"
	"slices"

	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/skills"
)

// TriggerKind discriminates Trigger.
type TriggerKind int

const (
	TriggerAnimationMarker TriggerKind = iota
	TriggerProjectileImpact
)

// Trigger is one event a stage is waiting for.
type Trigger struct {
	Kind   TriggerKind
	ID     animation.CombatAnimationID
	Marker animation.Marker // for TriggerAnimationMarker
}

func (t Trigger) matchesMarker(id animation.CombatAnimationID, m animation.Marker) bool {
	return t.Kind == TriggerAnimationMarker && t.ID == id && t.Marker == m
}

func (t Trigger) matchesProjectile(id animation.CombatAnimationID) bool {
	return t.Kind == TriggerProjectileImpact && t.ID == id
}

// Stage is a concrete timeline step, built from a skill stage for one
// particular attack.
type Stage struct {
	Kind         skills.StageActionKind
	Attacker     entity.ID
	Defender     entity.ID
	AnimationID  animation.CombatAnimationID
	Animation    animation.Kind
	FrameSeconds float64
	DefenderPos  grid.Position
	Cast         skills.Cast
	Actions      []skills.Action
}

// Timeline is the stage machine of one attack. Stages are numbered 1..K;
// stage 0 is the implicit start, which has nothing to wait for. The cursor
// only ever moves forward by one.
type Timeline struct {
	current int
	stages  []Stage     // stage n at index n-1
	pending [][]Trigger // stage n at index n
}

// CheckTimeline reports whether skill can be lowered into a timeline for
// attacker. A skill that animates its attacker cannot run without one.
func CheckTimeline(attacker entity.ID, skill skills.Skill) error {
	for i, st := range skill.Stages {
		switch st.Action.Kind {
		case skills.StageUnitAnimation:
			if !attacker.Valid() {
				return fmt.Errorf("skill %d stage %d: %w", skill.ID, i+1, ErrAttackerRequired)
			}
		case skills.StageImpact:
			for _, idx := range st.Action.Impact {
				if idx < 0 || idx >= len(skill.Actions) {
					return fmt.Errorf("skill %d stage %d action %d: %w", skill.ID, i+1, idx, ErrUnknownAction)
				}
			}
		}
	}
	return nil
}

// BuildTimeline lowers a skill's stages into a timeline for execution exec.
// It fails when CheckTimeline does.
func BuildTimeline(exec, attacker, defender entity.ID, defenderPos grid.Position, skill skills.Skill) (*Timeline, error) {
	if err := CheckTimeline(attacker, skill); err != nil {
		return nil, err
	}
	tl := &Timeline{
		stages:  make([]Stage, 0, len(skill.Stages)),
		pending: make([][]Trigger, len(skill.Stages)+1),
	}

	for i, st := range skill.Stages {
		id := i + 1
		stage := Stage{
			Kind:        st.Action.Kind,
			Attacker:    attacker,
			Defender:    defender,
			AnimationID: animation.CombatAnimationID{Execution: exec, Local: st.Action.AnimationID},
			DefenderPos: defenderPos,
		}

		switch st.Action.Kind {
		case skills.StageUnitAnimation:
			stage.Animation = st.Action.Animation
			stage.FrameSeconds = st.Action.FrameSeconds
		case skills.StageCast:
			stage.Cast = st.Action.Cast
		case skills.StageImpact:
			for _, idx := range st.Action.Impact {
				stage.Actions = append(stage.Actions, skill.Actions[idx])
			}
		}
		tl.stages = append(tl.stages, stage)

		tag := animation.CombatAnimationID{Execution: exec, Local: st.Event.AnimationID}
		switch st.Event.Kind {
		case skills.EventAnimationMarker:
			tl.pending[id] = []Trigger{{Kind: TriggerAnimationMarker, ID: tag, Marker: st.Event.Marker}}
		case skills.EventProjectileImpact:
			tl.pending[id] = []Trigger{{Kind: TriggerProjectileImpact, ID: tag}}
		}
	}
	return tl, nil
}

// Current returns the stage the cursor is on.
func (t *Timeline) Current() int { return t.current }

// Len returns the number of stages, not counting the implicit start.
func (t *Timeline) Len() int { return len(t.stages) }

// Stage returns stage n, if it exists.
func (t *Timeline) Stage(n int) (Stage, bool) {
	if n < 1 || n > len(t.stages) {
		return Stage{}, false
	}
	return t.stages[n-1], true
}

// Pending returns the triggers stage n is still waiting for.
func (t *Timeline) Pending(n int) []Trigger {
	if n < 0 || n >= len(t.pending) {
		return nil
	}
	return t.pending[n]
}

// Ready reports whether the current stage has nothing left to wait for.
func (t *Timeline) Ready() bool {
	return t.current < len(t.pending) && len(t.pending[t.current]) == 0
}

// advance moves the cursor past a ready stage and returns the stage left.
func (t *Timeline) advance() int {
	done := t.current
	t.current++
	return done
}

// clear removes every trigger, in any stage, that match accepts.
func (t *Timeline) clear(match func(Trigger) bool) int {
	n := 0
	for i, triggers := range t.pending {
		before := len(triggers)
		t.pending[i] = slices.DeleteFunc(triggers, match)
		n += before - len(t.pending[i])
	}
	return n
}

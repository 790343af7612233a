// Package combat turns attack intents into staged timelines, advances them
// as animation and projectile events arrive, and resolves their impacts.
package combat

import (
	"errors"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/skills"
	"github.com/samdwyer/gridtactics/internal/stats"
)

var (
	// ErrAttackerRequired is returned when a skill stage animates the
	// attacker but the attack has none.
	ErrAttackerRequired = errors.New("skill stage requires an attacker")
	// ErrUnknownAction is returned when an impact stage references an
	// action the skill does not define.
	ErrUnknownAction = errors.New("impact references unknown action")
)

// Intent is a request to attack that has not been turned into a timeline.
// Attacker is entity.None for environment damage such as poison.
type Intent struct {
	Attacker    entity.ID
	Defender    entity.ID
	DefenderPos grid.Position
	Skill       skills.SkillID
}

// StageComplete signals that an attack execution finished a stage and the
// next one should be entered.
type StageComplete struct {
	Execution entity.ID
	Stage     int
}

// ImpactEvent carries the actions an impact stage applies.
type ImpactEvent struct {
	Execution entity.ID
	Attacker  entity.ID
	Defender  entity.ID
	Actions   []skills.Action
}

// AttackResolved reports that an attack execution ran out of stages.
// Forced is set when the attack was cut short because its attacker
// disappeared.
type AttackResolved struct {
	Execution entity.ID
	Attacker  entity.ID
	Skill     skills.SkillID
	Forced    bool
}

// HealthChanged reports a non-zero change to a unit's health.
type HealthChanged struct {
	Unit  entity.ID
	Delta stats.Value
}

// Package skills defines skills, the stages an attack plays out in, and the
// immutable skill database every attack is built from.
package skills

import (
	"fmt"

	"github.com/samdwyer/gridtactics/internal/animation"
	"github.com/samdwyer/gridtactics/internal/effects"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/stats"
)

// SkillID identifies a skill in the database.
type SkillID uint32

// CategoryID identifies a skill category.
type CategoryID uint32

// Well-known skills the battle refers to directly.
const (
	AttackSkillID SkillID = 1
	PoisonSkillID SkillID = 7
)

// Modifier selects which stat scales a damage or heal amount.
type Modifier int

const (
	ModNone Modifier = iota
	ModPhysicalAttack
	ModMagicAttack
	ModPhysicalResistance
	ModMagicResistance
)

var modifierNames = map[string]Modifier{
	"":                    ModNone,
	"none":                ModNone,
	"physical_attack":     ModPhysicalAttack,
	"magic_attack":        ModMagicAttack,
	"physical_resistance": ModPhysicalResistance,
	"magic_resistance":    ModMagicResistance,
}

// ParseModifier converts a data-file modifier name. Empty means ModNone.
func ParseModifier(name string) (Modifier, error) {
	m, ok := modifierNames[name]
	if !ok {
		return ModNone, fmt.Errorf("unknown stat modifier %q", name)
	}
	return m, nil
}

// OffenseStat returns the attacker stat a modifier reads, if any.
func (m Modifier) OffenseStat() (stats.StatType, bool) {
	switch m {
	case ModPhysicalAttack:
		return stats.Strength, true
	case ModMagicAttack:
		return stats.Magic, true
	}
	return 0, false
}

// DefenseStat returns the defender stat a modifier reads, if any.
func (m Modifier) DefenseStat() (stats.StatType, bool) {
	switch m {
	case ModPhysicalResistance:
		return stats.Defense, true
	case ModMagicResistance:
		return stats.Resistance, true
	}
	return 0, false
}

// ActionKind discriminates Action.
type ActionKind int

const (
	ActionDamaging ActionKind = iota
	ActionHealing
	ActionApplyEffects
)

// Amount is the power of a damage or heal and the stats that scale it.
type Amount struct {
	Power   stats.Value
	Offense Modifier
	Defense Modifier
}

// Action is one thing a skill does on impact.
type Action struct {
	BaseAccuracy float32
	Kind         ActionKind
	Amount       Amount
	Effects      []effects.Data
}

// Targeting restricts which tiles a skill can be aimed at.
type Targeting struct {
	Range int
}

// TargetInRange targets any tile within n steps.
func TargetInRange(n int) Targeting {
	return Targeting{Range: n}
}

// InRange reports whether target can be aimed at from origin.
func (t Targeting) InRange(origin, target grid.Position) bool {
	d := grid.Manhattan(origin, target)
	return d >= 1 && d <= t.Range
}

// Tiles returns every tile on g the skill can be aimed at from origin.
func (t Targeting) Tiles(g *grid.Manager, origin grid.Position) []grid.Position {
	return g.AttackOptions(origin, t.Range)
}

// StageActionKind discriminates StageAction.
type StageActionKind int

const (
	// StageUnitAnimation plays an animation on the attacker.
	StageUnitAnimation StageActionKind = iota
	// StageCast spawns a visual on the defender's tile or a projectile
	// towards it.
	StageCast
	// StageImpact applies a subset of the skill's actions.
	StageImpact
)

func (k StageActionKind) String() string {
	switch k {
	case StageUnitAnimation:
		return "unit_animation"
	case StageCast:
		return "cast"
	case StageImpact:
		return "impact"
	}
	return "unknown"
}

// CastKind discriminates Cast.
type CastKind int

const (
	CastTileSprite CastKind = iota
	CastProjectile
)

// Cast is the payload of a cast stage.
type Cast struct {
	Kind   CastKind
	Sprite string
	Clip   animation.Kind
}

// StageAction is what happens when a stage is entered.
type StageAction struct {
	Kind         StageActionKind
	AnimationID  int // skill-local animation id, for unit animations and casts
	Animation    animation.Kind
	FrameSeconds float64
	Cast         Cast
	Impact       []int // indexes into Skill.Actions
}

// StageEventKind discriminates StageEvent.
type StageEventKind int

const (
	// EventAnimationMarker waits for a marker of a skill-local animation.
	EventAnimationMarker StageEventKind = iota
	// EventProjectileImpact waits for a projectile to land.
	EventProjectileImpact
	// EventImmediate does not wait.
	EventImmediate
)

// StageEvent is the event that must fire before a timeline may move past
// its stage.
type StageEvent struct {
	Kind        StageEventKind
	AnimationID int
	Marker      animation.Marker
}

// Stage pairs an action with the event that completes it.
type Stage struct {
	Action StageAction
	Event  StageEvent
}

// Skill is an immutable skill definition.
type Skill struct {
	ID          SkillID
	Category    CategoryID
	Name        string
	Description string
	Actions     []Action
	Targeting   Targeting
	APCost      int
	Stages      []Stage
}

// Clone returns a deep copy so attacks can hold a snapshot.
func (s Skill) Clone() Skill {
	out := s
	out.Actions = make([]Action, len(s.Actions))
	for i, a := range s.Actions {
		a.Effects = append([]effects.Data(nil), a.Effects...)
		out.Actions[i] = a
	}
	out.Stages = make([]Stage, len(s.Stages))
	for i, st := range s.Stages {
		st.Action.Impact = append([]int(nil), st.Action.Impact...)
		out.Stages[i] = st
	}
	return out
}

// Category groups skills for menus.
type Category struct {
	ID   CategoryID
	Name string
}

// Package effects models timed status and stat-buff effects and the
// per-unit container that holds the ones currently applied.
package effects

import (
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/stats"
)

// StatusTag names a status condition.
type StatusTag string

const (
	StatusPoisoned StatusTag = "poisoned"
	StatusStunned  StatusTag = "stunned"
)

// Operator is how a stat modification combines with the base value.
type Operator string

const (
	OpAdd Operator = "add"
	OpMul Operator = "mul"
)

// StatModification changes one stat while the effect is active.
type StatModification struct {
	Stat     stats.StatType
	Operator Operator
	Value    stats.Value
}

// Kind discriminates Type.
type Kind int

const (
	KindStatBuff Kind = iota
	KindStatusInfliction
)

// Type is what an effect does. Exactly one of StatBuff or Status is
// meaningful, selected by Kind.
type Type struct {
	Kind     Kind
	StatBuff StatModification
	Status   StatusTag
}

// StatBuff builds a stat-buff effect type.
func StatBuff(mod StatModification) Type {
	return Type{Kind: KindStatBuff, StatBuff: mod}
}

// Status builds a status-infliction effect type.
func Status(tag StatusTag) Type {
	return Type{Kind: KindStatusInfliction, Status: tag}
}

// DurationKind discriminates Duration.
type DurationKind int

const (
	// DurationTurnCount lasts for Count turns of the owner's phase.
	DurationTurnCount DurationKind = iota
	// DurationConsumable can be consumed Count times.
	DurationConsumable
	// DurationPermanent stays as long as its source does (passives, equipment).
	DurationPermanent
)

// Duration is how long an effect lasts.
type Duration struct {
	Kind  DurationKind
	Count int
}

// TurnCount returns a duration lasting n turns.
func TurnCount(n int) Duration { return Duration{Kind: DurationTurnCount, Count: n} }

// Permanent returns a duration that never expires.
func Permanent() Duration { return Duration{Kind: DurationPermanent} }

// Data is the payload of an effect, as declared by a skill.
type Data struct {
	Type     Type
	Duration Duration
}

// Metadata records who an effect was applied to and by whom.
type Metadata struct {
	Target entity.ID
	Source entity.ID // entity.None for environment effects
}

// Effect is one applied instance.
type Effect struct {
	Metadata Metadata
	Data     Data
}

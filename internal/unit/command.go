package unit

import (
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/skills"
)

// ActionKind names what a unit did.
type ActionKind int

const (
	ActionMove ActionKind = iota
	ActionAttack
	ActionWait
)

func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "move"
	case ActionAttack:
		return "attack"
	case ActionWait:
		return "wait"
	default:
		return "unknown"
	}
}

// Command is an order given to a unit by the player or a planner.
type Command struct {
	Unit   entity.ID
	Kind   ActionKind
	Path   grid.Path      // for ActionMove
	Skill  skills.SkillID // for ActionAttack
	Target grid.Position  // for ActionAttack
}

// Move orders a unit along a path.
func Move(id entity.ID, path grid.Path) Command {
	return Command{Unit: id, Kind: ActionMove, Path: path}
}

// Attack orders a unit to use a skill on a tile.
func Attack(id entity.ID, skill skills.SkillID, target grid.Position) Command {
	return Command{Unit: id, Kind: ActionAttack, Skill: skill, Target: target}
}

// Wait orders a unit to end its phase.
func Wait(id entity.ID) Command {
	return Command{Unit: id, Kind: ActionWait}
}

// ActionCompleted reports that a unit finished carrying out a command.
type ActionCompleted struct {
	Unit   entity.ID
	Action ActionKind
}

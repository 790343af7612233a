package enemy

import (
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/skills"
	"github.com/samdwyer/gridtactics/internal/unit"
)

// Board is the read-only view of the battle a planner needs.
type Board interface {
	Unit(id entity.ID) (*unit.Unit, bool)
	PositionOf(id entity.ID) (grid.Position, bool)
	Opponents(team unit.Team) []*unit.Unit // standing units of other teams
	ValidMoves(id entity.ID) map[grid.Position]grid.Path
	Skills() *skills.DB
}

// Skirmisher attacks the first opponent in range with its first damaging
// skill, otherwise steps toward the nearest opponent, otherwise waits.
type Skirmisher struct {
	Board Board
}

// Plan returns the next command for id.
func (s Skirmisher) Plan(id entity.ID) unit.Command {
	u, ok := s.Board.Unit(id)
	if !ok {
		return unit.Wait(id)
	}
	pos, ok := s.Board.PositionOf(id)
	if !ok {
		return unit.Wait(id)
	}
	opponents := s.Board.Opponents(u.Team)

	if u.Resources.ActionLeft > 0 && !u.Effects.PreventAction() {
		for _, sid := range u.Skills {
			skill := s.Board.Skills().Skill(sid)
			if !damaging(skill) || skill.APCost > u.Resources.ActionLeft {
				continue
			}
			for _, o := range opponents {
				opos, ok := s.Board.PositionOf(o.ID)
				if ok && skill.Targeting.InRange(pos, opos) {
					return unit.Attack(id, sid, opos)
				}
			}
		}
	}

	if u.Resources.MovementLeft > 0 && !u.Effects.PreventMove() {
		best := nearest(s.Board, pos, opponents)
		var bestPath grid.Path
		for dest, path := range s.Board.ValidMoves(id) {
			d := nearest(s.Board, dest, opponents)
			if d < best || (d == best && bestPath != nil && less(dest, bestPath.Destination())) {
				best, bestPath = d, path
			}
		}
		if bestPath != nil {
			return unit.Move(id, bestPath)
		}
	}
	return unit.Wait(id)
}

func damaging(s skills.Skill) bool {
	for _, a := range s.Actions {
		if a.Kind == skills.ActionDamaging {
			return true
		}
	}
	return false
}

// nearest returns the distance from p to the closest opponent.
func nearest(b Board, p grid.Position, opponents []*unit.Unit) int {
	best := int(^uint(0) >> 1)
	for _, o := range opponents {
		if opos, ok := b.PositionOf(o.ID); ok {
			best = min(best, grid.Manhattan(p, opos))
		}
	}
	return best
}

func less(a, b grid.Position) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

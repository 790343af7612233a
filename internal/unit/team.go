package unit

import (
	"fmt"
	"slices"

	"github.com/samdwyer/gridtactics/internal/phase"
)

// Team is the side a unit fights for.
type Team int

const (
	TeamPlayer Team = iota
	TeamEnemy
)

func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Phase returns the phase in which the team's units act.
func (t Team) Phase() phase.Phase {
	if t == TeamEnemy {
		return phase.Enemy
	}
	return phase.Player
}

// ParseTeam converts a data-file team name.
func ParseTeam(name string) (Team, error) {
	switch name {
	case "player":
		return TeamPlayer, nil
	case "enemy":
		return TeamEnemy, nil
	default:
		return 0, fmt.Errorf("unknown team %q", name)
	}
}

// ObstacleKind discriminates Obstacle.
type ObstacleKind int

const (
	// ObstacleNeutral blocks every mover.
	ObstacleNeutral ObstacleKind = iota
	// ObstacleFilter lets the listed teams pass through without stopping.
	ObstacleFilter
)

// Obstacle is how a unit affects movement through its tile.
type Obstacle struct {
	Kind  ObstacleKind
	Teams []Team
}

// FilterObstacle returns an obstacle passable by teams.
func FilterObstacle(teams ...Team) Obstacle {
	return Obstacle{Kind: ObstacleFilter, Teams: teams}
}

// Passable reports whether a mover of team may pass through.
func (o Obstacle) Passable(team Team) bool {
	return o.Kind == ObstacleFilter && slices.Contains(o.Teams, team)
}

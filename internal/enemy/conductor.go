// Package enemy runs the enemy phase: one enemy at a time, in queue order,
// with a pluggable planner deciding what each does.
package enemy

import (
	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/unit"
)

// Planner decides the next command for a unit.
type Planner interface {
	Plan(id entity.ID) unit.Command
}

// WaitPlanner always waits.
type WaitPlanner struct{}

// Plan returns a Wait command.
func (WaitPlanner) Plan(id entity.ID) unit.Command {
	return unit.Wait(id)
}

// Conductor queues the enemies of a phase and hands them to the planner
// one at a time. An enemy stays active until it waits; after a move or an
// attack it is planned for again.
type Conductor struct {
	planner    Planner
	queue      []entity.ID
	active     entity.ID
	inProgress bool
	planned    []unit.Command
	log        *zap.Logger
}

// NewConductor creates a conductor that plans with p.
func NewConductor(p Planner, log *zap.Logger) *Conductor {
	return &Conductor{planner: p, log: log}
}

// BeginPhase queues every enemy that will act this phase.
func (c *Conductor) BeginPhase(enemies []entity.ID) {
	c.queue = append(c.queue[:0], enemies...)
	c.active = entity.None
	c.inProgress = false
	c.planned = nil
	c.log.Debug("enemy phase queued", zap.Int("enemies", len(enemies)))
}

// SelectNext makes the front of the queue the active enemy. It does
// nothing while another enemy is active.
func (c *Conductor) SelectNext() {
	if c.active.Valid() || len(c.queue) == 0 {
		return
	}
	c.active = c.queue[0]
	c.queue = c.queue[1:]
	c.log.Info("enemy selected", zap.Stringer("enemy", c.active), zap.Int("remaining", len(c.queue)))
}

// PlanAction asks the planner for the active enemy's next command, unless
// one is already in progress.
func (c *Conductor) PlanAction() {
	if !c.active.Valid() || c.inProgress {
		return
	}
	c.inProgress = true
	cmd := c.planner.Plan(c.active)
	c.planned = append(c.planned, cmd)
	c.log.Debug("enemy planned", zap.Stringer("enemy", c.active), zap.Stringer("action", cmd.Kind))
}

// ExecuteAction hands planned commands to issue. Nothing is issued while
// busy. A command issue rejects is replaced by a Wait so the enemy cannot
// stall the phase.
func (c *Conductor) ExecuteAction(busy bool, issue func(unit.Command) error) {
	if busy || len(c.planned) == 0 {
		return
	}
	planned := c.planned
	c.planned = nil
	for _, cmd := range planned {
		if err := issue(cmd); err != nil {
			c.log.Warn("enemy command rejected, waiting instead",
				zap.Stringer("enemy", cmd.Unit),
				zap.Stringer("action", cmd.Kind),
				zap.Error(err),
			)
			if cmd.Kind == unit.ActionWait {
				continue
			}
			if err := issue(unit.Wait(cmd.Unit)); err != nil {
				c.log.Error("enemy cannot wait", zap.Stringer("enemy", cmd.Unit), zap.Error(err))
			}
		}
	}
}

// ResolveAction reacts to a finished action of the active enemy. Moves and
// attacks let it act again; waiting hands over to the next enemy.
func (c *Conductor) ResolveAction(done unit.ActionCompleted) {
	if done.Unit != c.active {
		return
	}
	c.inProgress = false
	if done.Action == unit.ActionWait {
		c.active = entity.None
	}
}

// Drop removes an enemy that can no longer act, such as one that was
// downed.
func (c *Conductor) Drop(id entity.ID) {
	for i, q := range c.queue {
		if q == id {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			break
		}
	}
	if c.active == id {
		c.active = entity.None
		c.inProgress = false
		c.planned = nil
	}
}

// Active returns the active enemy, or entity.None.
func (c *Conductor) Active() entity.ID { return c.active }

// Queued returns how many enemies are still waiting their turn.
func (c *Conductor) Queued() int { return len(c.queue) }

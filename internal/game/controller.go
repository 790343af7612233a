package game

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/gridtactics/internal/battle"
	"github.com/samdwyer/gridtactics/internal/entity"
	"github.com/samdwyer/gridtactics/internal/grid"
	"github.com/samdwyer/gridtactics/internal/skills"
	"github.com/samdwyer/gridtactics/internal/telemetry"
	"github.com/samdwyer/gridtactics/internal/ui"
	"github.com/samdwyer/gridtactics/internal/unit"
)

// Controller turns player input into battle commands.
type Controller struct {
	ctx    context.Context
	battle *battle.Battle
	log    *zap.Logger

	Mode        Mode
	Cursor      grid.Position
	Selected    entity.ID
	Skill       skills.SkillID
	LastMessage string
}

// NewController creates a controller with the first player unit selected.
func NewController(ctx context.Context, b *battle.Battle, log *zap.Logger) *Controller {
	c := &Controller{
		ctx:         ctx,
		battle:      b,
		log:         log,
		LastMessage: "Battle begins!",
	}
	c.SelectNext()
	return c
}

// selected returns the selected unit if it is still standing.
func (c *Controller) selected() (*unit.Unit, bool) {
	if !c.Selected.Valid() {
		return nil, false
	}
	u, ok := c.battle.Unit(c.Selected)
	if !ok || u.Downed() {
		return nil, false
	}
	return u, true
}

// SelectNext selects the next player unit that can still act, in handle
// order, and puts the cursor on it.
func (c *Controller) SelectNext() {
	team := c.battle.Team(unit.TeamPlayer)
	if len(team) == 0 {
		c.Selected = entity.None
		return
	}
	start := 0
	for i, u := range team {
		if u.ID == c.Selected {
			start = i + 1
			break
		}
	}
	for i := range team {
		u := team[(start+i)%len(team)]
		if u.Resources.CanAct() || !c.battle.PhaseRunning() {
			c.selectUnit(u)
			return
		}
	}
	c.selectUnit(team[start%len(team)])
}

func (c *Controller) selectUnit(u *unit.Unit) {
	c.Selected = u.ID
	c.Mode = ModeBrowse
	if pos, ok := c.battle.PositionOf(u.ID); ok {
		c.Cursor = pos
	}
}

// MoveCursor moves the cursor, staying on the board.
func (c *Controller) MoveCursor(dx, dy int) {
	c.Cursor, _ = c.battle.Grid().Step(c.Cursor, grid.Vec{X: dx, Y: dy})
}

// BeginMove starts choosing a destination for the selected unit.
func (c *Controller) BeginMove() {
	if _, ok := c.selected(); !ok {
		c.LastMessage = "No unit selected."
		return
	}
	c.Mode = ModeMove
}

// ChooseSkill starts targeting with the selected unit's nth skill.
func (c *Controller) ChooseSkill(n int) {
	u, ok := c.selected()
	if !ok {
		c.LastMessage = "No unit selected."
		return
	}
	if n < 0 || n >= len(u.Skills) {
		return
	}
	c.Skill = u.Skills[n]
	c.Mode = ModeTarget
	if s, ok := c.battle.Skills().Lookup(c.Skill); ok {
		c.LastMessage = fmt.Sprintf("%s: choose a target.", s.Name)
	}
}

// Cancel returns to browsing.
func (c *Controller) Cancel() {
	c.Mode = ModeBrowse
	c.LastMessage = ""
}

// Confirm acts on the cursor tile according to the mode.
func (c *Controller) Confirm() {
	switch c.Mode {
	case ModeBrowse:
		if u, ok := c.battle.UnitAt(c.Cursor); ok && u.Team == unit.TeamPlayer {
			c.selectUnit(u)
		}
	case ModeMove:
		path, ok := c.battle.PathTo(c.Selected, c.Cursor)
		if !ok {
			c.LastMessage = "Can't move there."
			return
		}
		c.issue(unit.Move(c.Selected, path))
	case ModeTarget:
		c.issue(unit.Attack(c.Selected, c.Skill, c.Cursor))
	}
}

// Wait ends the selected unit's phase and selects the next one.
func (c *Controller) Wait() {
	if _, ok := c.selected(); !ok {
		return
	}
	if c.issue(unit.Wait(c.Selected)) {
		c.SelectNext()
	}
}

func (c *Controller) issue(cmd unit.Command) bool {
	_, span := telemetry.Tracer("game").Start(c.ctx, "game.command")
	defer span.End()
	span.SetAttributes(
		attribute.String("unit", cmd.Unit.String()),
		attribute.String("action", cmd.Kind.String()),
	)

	if err := c.battle.Issue(cmd); err != nil {
		span.SetAttributes(attribute.String("rejected", err.Error()))
		c.log.Debug("command rejected", zap.Stringer("unit", cmd.Unit), zap.Stringer("action", cmd.Kind), zap.Error(err))
		c.LastMessage = "Can't do that: " + err.Error() + "."
		return false
	}
	c.Mode = ModeBrowse
	c.LastMessage = ""
	return true
}

// View returns what the renderer draws for the current input state.
func (c *Controller) View() ui.View {
	v := ui.View{
		Cursor:   c.Cursor,
		Selected: c.Selected,
		Mode:     c.Mode.String(),
		Message:  c.LastMessage,
	}
	u, ok := c.selected()
	if !ok {
		return v
	}
	v.Highlights = make(map[grid.Position]ui.Highlight)
	switch c.Mode {
	case ModeMove:
		for p := range c.battle.ValidMoves(u.ID) {
			v.Highlights[p] = ui.HighlightMove
		}
	case ModeTarget:
		s, ok := c.battle.Skills().Lookup(c.Skill)
		pos, found := c.battle.PositionOf(u.ID)
		if ok && found {
			for _, p := range s.Targeting.Tiles(c.battle.Grid(), pos) {
				v.Highlights[p] = ui.HighlightTarget
			}
		}
	}
	return v
}
